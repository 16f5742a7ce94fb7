package web

import "github.com/invopop/jsonschema"

// Schema describes the websocket protocol.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(Protocol))
	schema.Title = "UFO Flap feed"
	schema.Description = "Commands sent on /ws and the frames returned"
	return schema
}
