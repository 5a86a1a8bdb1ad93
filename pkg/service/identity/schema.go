package identity

import (
	"encoding/json"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/namer/pkg/model"
	"google.golang.org/genai"
)

// ideaPayload is the wire shape of one generated idea.
type ideaPayload struct {
	Handle            string `json:"handle" jsonschema:"The full domain name with extension, e.g. PixelMarket.shop"`
	Style             string `json:"style" jsonschema:"The brand style"`
	Vibe              string `json:"vibe" jsonschema:"The brand personality"`
	Category          string `json:"category" jsonschema:"One of Commerce, Gaming, Tech, Creative, Personal, Other"`
	Explanation       string `json:"explanation" jsonschema:"Why this domain works"`
	AvailabilityScore int    `json:"availabilityScore" jsonschema:"Uniqueness score from 1 to 10"`
}

func (x *ideaPayload) toModel() *model.IdentityIdea {
	return &model.IdentityIdea{
		Handle:            strings.TrimSpace(x.Handle),
		Style:             x.Style,
		Vibe:              x.Vibe,
		Category:          x.Category,
		Explanation:       x.Explanation,
		AvailabilityScore: x.AvailabilityScore,
	}
}

// presencePayload is the response shape requested when JSON mode is usable.
type presencePayload struct {
	SocialsFound       []string          `json:"socialsFound" jsonschema:"Social platforms where the name is found, e.g. Twitter"`
	TLDStatus          map[string]string `json:"tldStatus" jsonschema:"AVAILABLE, TAKEN or UNKNOWN per checked extension"`
	Summary            string            `json:"summary" jsonschema:"A brief text summary of the availability"`
	WebsiteTitle       string            `json:"websiteTitle,omitempty" jsonschema:"Title of the main conflicting website if found, else N/A"`
	WebsiteDescription string            `json:"websiteDescription,omitempty" jsonschema:"Description of the main conflicting website if found, else N/A"`
}

type schemas struct {
	ideas         *jsonschema.Resolved
	ideasGenai    *genai.Schema
	presenceGenai *genai.Schema
}

func buildSchemas(tlds []string) (*schemas, error) {
	item, err := jsonschema.For[ideaPayload](nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to infer idea schema")
	}
	// Extra keys from the model are ignored, not rejected.
	item.AdditionalProperties = nil
	score := item.Properties["availabilityScore"]
	score.Minimum = ptr(1.0)
	score.Maximum = ptr(10.0)

	ideas := &jsonschema.Schema{Type: "array", Items: item}
	resolved, err := ideas.Resolve(nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve idea schema")
	}
	ideasGenai, err := convertJSONSchemaToGenai(ideas)
	if err != nil {
		return nil, err
	}

	presence, err := jsonschema.For[presencePayload](nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to infer presence schema")
	}
	presenceGenai, err := convertJSONSchemaToGenai(presence)
	if err != nil {
		return nil, err
	}
	// genai needs explicit properties for a map; the checked suffixes are known.
	tldProps := make(map[string]*genai.Schema, len(tlds))
	for _, tld := range tlds {
		tldProps[tld] = &genai.Schema{
			Type: genai.TypeString,
			Enum: []string{string(model.TLDAvailable), string(model.TLDTaken), string(model.TLDUnknown)},
		}
	}
	presenceGenai.Properties["tldStatus"] = &genai.Schema{
		Type:        genai.TypeObject,
		Description: presenceGenai.Properties["tldStatus"].Description,
		Properties:  tldProps,
		Required:    tlds,
	}

	return &schemas{
		ideas:         resolved,
		ideasGenai:    ideasGenai,
		presenceGenai: presenceGenai,
	}, nil
}

// decodeIdeas validates raw against the idea schema and converts it.
func (s *schemas) decodeIdeas(raw string) ([]*model.IdentityIdea, error) {
	var instance any
	if err := json.Unmarshal([]byte(raw), &instance); err != nil {
		return nil, goerr.Wrap(err, "AI response was not valid JSON")
	}
	if err := s.ideas.Validate(instance); err != nil {
		return nil, goerr.Wrap(err, "AI response does not match the idea schema")
	}

	var payloads []*ideaPayload
	if err := json.Unmarshal([]byte(raw), &payloads); err != nil {
		return nil, goerr.Wrap(err, "failed to decode ideas")
	}

	ideas := make([]*model.IdentityIdea, 0, len(payloads))
	for _, p := range payloads {
		if p == nil {
			return nil, goerr.New("AI response contains a null idea")
		}
		idea := p.toModel()
		if err := idea.Validate(); err != nil {
			return nil, err
		}
		ideas = append(ideas, idea)
	}
	return ideas, nil
}

func ptr[T any](v T) *T {
	return &v
}

// convertJSONSchemaToGenai converts JSON Schema to Gemini genai.Schema
func convertJSONSchemaToGenai(schema *jsonschema.Schema) (*genai.Schema, error) {
	if schema == nil {
		return nil, nil
	}

	genaiSchema := &genai.Schema{
		Description: schema.Description,
		Required:    schema.Required,
		Minimum:     schema.Minimum,
		Maximum:     schema.Maximum,
	}

	typ := schema.Type
	if typ == "" {
		// Nullable Go types infer as ["null", T].
		for _, t := range schema.Types {
			if t == "null" {
				genaiSchema.Nullable = ptr(true)
				continue
			}
			typ = t
		}
	}

	switch typ {
	case "object":
		genaiSchema.Type = genai.TypeObject
	case "string":
		genaiSchema.Type = genai.TypeString
	case "integer":
		genaiSchema.Type = genai.TypeInteger
	case "number":
		genaiSchema.Type = genai.TypeNumber
	case "boolean":
		genaiSchema.Type = genai.TypeBoolean
	case "array":
		genaiSchema.Type = genai.TypeArray
	case "":
	default:
		return nil, goerr.New("unsupported schema type", goerr.V("type", typ))
	}

	for _, v := range schema.Enum {
		if s, ok := v.(string); ok {
			genaiSchema.Enum = append(genaiSchema.Enum, s)
		}
	}

	if len(schema.Properties) > 0 {
		genaiSchema.Properties = make(map[string]*genai.Schema, len(schema.Properties))
		for name, propSchema := range schema.Properties {
			converted, err := convertJSONSchemaToGenai(propSchema)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to convert property schema",
					goerr.V("property", name))
			}
			genaiSchema.Properties[name] = converted
		}
	}

	if schema.Items != nil {
		converted, err := convertJSONSchemaToGenai(schema.Items)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to convert items schema")
		}
		genaiSchema.Items = converted
	}

	return genaiSchema, nil
}
