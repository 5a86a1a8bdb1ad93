package identity

import (
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/namer/pkg/model"
	"github.com/tidwall/gjson"
)

// PresenceDecoder turns the model's free-form answer to a presence check
// into an analysis.
type PresenceDecoder interface {
	Decode(handle, text string) (*model.IdentityAnalysis, error)
}

// NewPresenceDecoder returns the structured JSON decoder with the plain text
// decoder as fallback.
func NewPresenceDecoder() PresenceDecoder {
	return decoderChain{jsonPresenceDecoder{}, textPresenceDecoder{}}
}

const defaultAnalysisSummary = "Analysis complete."

var errUndecodable = goerr.New("presence response can not be decoded")

type decoderChain []PresenceDecoder

func (c decoderChain) Decode(handle, text string) (*model.IdentityAnalysis, error) {
	var errs []error
	for _, d := range c {
		analysis, err := d.Decode(handle, text)
		if err == nil {
			return analysis, nil
		}
		errs = append(errs, err)
	}

	causes := make([]string, len(errs))
	for i, err := range errs {
		causes[i] = err.Error()
	}
	return nil, goerr.Wrap(errUndecodable, "all presence decoders failed", goerr.V("causes", causes))
}

var fencePattern = regexp.MustCompile("```(?:json|JSON)?\\s*")

// jsonPresenceDecoder accepts both historical shapes of the JSON answer:
// socialsFound/websiteTitle/websiteDescription and
// takenOn/profileTitle/profileDescription.
type jsonPresenceDecoder struct{}

func (jsonPresenceDecoder) Decode(handle, text string) (*model.IdentityAnalysis, error) {
	body := strings.TrimSpace(fencePattern.ReplaceAllString(text, ""))
	if !gjson.Valid(body) {
		// Grounded answers sometimes wrap the object in prose.
		start, end := strings.Index(body, "{"), strings.LastIndex(body, "}")
		if start < 0 || end <= start || !gjson.Valid(body[start:end+1]) {
			return nil, goerr.New("response is not valid JSON")
		}
		body = body[start : end+1]
	}

	root := gjson.Parse(body)
	if !root.IsObject() {
		return nil, goerr.New("response is not a JSON object")
	}

	analysis := &model.IdentityAnalysis{
		Handle:    handle,
		TakenOn:   []string{},
		Summary:   strings.TrimSpace(root.Get("summary").String()),
		TLDStatus: map[string]model.TLDState{},
	}
	if analysis.Summary == "" {
		analysis.Summary = defaultAnalysisSummary
	}

	for _, v := range firstOf(root, "socialsFound", "takenOn").Array() {
		if s := strings.TrimSpace(v.String()); s != "" {
			analysis.TakenOn = append(analysis.TakenOn, s)
		}
	}

	analysis.ProfileTitle = optional(firstOf(root, "websiteTitle", "profileTitle"))
	analysis.ProfileDescription = optional(firstOf(root, "websiteDescription", "profileDescription"))

	// ForEach keeps keys like ".com" away from gjson path syntax.
	root.Get("tldStatus").ForEach(func(key, value gjson.Result) bool {
		analysis.TLDStatus[key.String()] = model.ParseTLDState(value.String())
		return true
	})

	return analysis, nil
}

func firstOf(root gjson.Result, keys ...string) gjson.Result {
	for _, key := range keys {
		if v := root.Get(key); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

// optional maps "", N/A and null to absent.
func optional(v gjson.Result) string {
	s := strings.TrimSpace(v.String())
	if strings.EqualFold(s, "N/A") {
		return ""
	}
	return s
}

// textPresenceDecoder reads the line format
//
//	Taken: Twitter, Instagram
//	Summary: ...
type textPresenceDecoder struct{}

func (textPresenceDecoder) Decode(handle, text string) (*model.IdentityAnalysis, error) {
	analysis := &model.IdentityAnalysis{
		Handle:    handle,
		TakenOn:   []string{},
		TLDStatus: map[string]model.TLDState{},
	}

	var found bool
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if v, ok := cutPrefixFold(line, "Taken:"); ok {
			found = true
			for _, p := range strings.Split(v, ",") {
				p = strings.TrimSpace(p)
				if p == "" || strings.EqualFold(p, "none") {
					continue
				}
				analysis.TakenOn = append(analysis.TakenOn, p)
			}
		} else if v, ok := cutPrefixFold(line, "Summary:"); ok {
			found = true
			analysis.Summary = strings.TrimSpace(v)
		}
	}

	if !found {
		return nil, goerr.New("response has neither Taken nor Summary line")
	}
	if analysis.Summary == "" {
		analysis.Summary = defaultAnalysisSummary
	}
	return analysis, nil
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	return s[len(prefix):], true
}
