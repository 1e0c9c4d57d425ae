package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"car_id",
			"start_datetime",
			"end_datetime",
			"booked_by",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "long",
				"minimum":  1,
			},

			"car_id": bson.M{
				"bsonType": "long",
				"minimum":  1,
			},

			"start_datetime": bson.M{
				"bsonType": "date",
			},

			"end_datetime": bson.M{
				"bsonType": "date",
			},

			"booked_by": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
