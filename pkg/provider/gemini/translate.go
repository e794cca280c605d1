package gemini

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
	"google.golang.org/genai"

	"github.com/jmkoo/daedap/pkg/provider"
)

// translateRequest converts a provider request into genai contents and
// generation config.
func translateRequest(req *provider.Request) ([]*genai.Content, *genai.GenerateContentConfig) {
	contents := make([]*genai.Content, 0, len(req.Contents))
	for _, c := range req.Contents {
		contents = append(contents, translateContent(c))
	}

	config := &genai.GenerateContentConfig{}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	if len(req.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(req.Tools))
		for _, t := range req.Tools {
			decls = append(decls, &genai.FunctionDeclaration{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  translateSchema(t.Parameters),
			})
		}
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	return contents, config
}

func translateContent(c provider.Content) *genai.Content {
	parts := make([]*genai.Part, 0, len(c.Parts))
	for _, p := range c.Parts {
		switch {
		case p.FunctionCall != nil:
			parts = append(parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{
					Name: p.FunctionCall.Name,
					Args: argsToMap(p.FunctionCall.Args),
				},
			})
		case p.FunctionResponse != nil:
			parts = append(parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					Name:     p.FunctionResponse.Name,
					Response: p.FunctionResponse.Response,
				},
			})
		default:
			parts = append(parts, &genai.Part{Text: p.Text})
		}
	}
	return &genai.Content{Role: string(c.Role), Parts: parts}
}

// argsToMap coerces a FunctionCall argument payload into the map shape the
// SDK requires. A JSON string is decoded; decode failures degrade to an
// empty map since the payload came from the model in the first place.
func argsToMap(args any) map[string]any {
	switch v := args.(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		return v
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(v), &m); err != nil || m == nil {
			return map[string]any{}
		}
		return m
	default:
		return map[string]any{}
	}
}

// translateResponse aggregates candidate parts into a provider reply.
func translateResponse(resp *genai.GenerateContentResponse) *provider.Reply {
	reply := &provider.Reply{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return reply
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.FunctionCall != nil {
			reply.Calls = append(reply.Calls, provider.FunctionCall{
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			})
			continue
		}
		reply.Text += part.Text
	}

	return reply
}

// translateSchema converts a JSON Schema tool declaration into the genai
// schema dialect. Only the subset used by tool declarations is mapped:
// object/array/scalar types, descriptions, properties, required, items,
// and string enums.
func translateSchema(s *jsonschema.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        translateSchemaType(s.Type),
		Description: s.Description,
		Format:      s.Format,
	}

	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = translateSchema(prop)
		}
	}
	if len(s.Required) > 0 {
		out.Required = append(out.Required, s.Required...)
	}
	if s.Items != nil {
		out.Items = translateSchema(s.Items)
	}
	for _, e := range s.Enum {
		if str, ok := e.(string); ok {
			out.Enum = append(out.Enum, str)
		}
	}

	return out
}

func translateSchemaType(t string) genai.Type {
	switch t {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeUnspecified
	}
}
