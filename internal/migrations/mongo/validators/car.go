package validators

import "go.mongodb.org/mongo-driver/bson"

var CarValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"make",
			"model",
			"year",
			"license_plate",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "long",
				"minimum":  1,
			},

			"make": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"model": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"year": bson.M{
				"bsonType": "int",
				"minimum":  1950,
			},

			"fuel_type": bson.M{
				"bsonType": "string",
			},

			"seats": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  9,
			},

			"body_style": bson.M{
				"bsonType": "string",
			},

			"license_plate": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"image": bson.M{
				"bsonType": "string",
			},
		},
	},
}
