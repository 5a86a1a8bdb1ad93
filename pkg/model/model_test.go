package model_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/namer/pkg/model"
)

func TestIdentityIdeaValidate(t *testing.T) {
	testCases := []struct {
		name    string
		idea    *model.IdentityIdea
		wantErr bool
	}{
		{"valid", &model.IdentityIdea{Handle: "KnitCraft.io", AvailabilityScore: 7}, false},
		{"lower bound", &model.IdentityIdea{Handle: "a", AvailabilityScore: 1}, false},
		{"upper bound", &model.IdentityIdea{Handle: "a", AvailabilityScore: 10}, false},
		{"empty handle", &model.IdentityIdea{Handle: "  ", AvailabilityScore: 5}, true},
		{"score zero", &model.IdentityIdea{Handle: "a", AvailabilityScore: 0}, true},
		{"score eleven", &model.IdentityIdea{Handle: "a", AvailabilityScore: 11}, true},
		{"nil", nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.idea.Validate()
			if tc.wantErr {
				gt.Error(t, err)
				gt.True(t, errors.Is(err, model.ErrInvalidIdea))
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	gt.Equal(t, model.ParseCategory("commerce"), model.CategoryCommerce)
	gt.Equal(t, model.ParseCategory(" GAMING "), model.CategoryGaming)
	gt.Equal(t, model.ParseCategory("Tech"), model.CategoryTech)
	gt.Equal(t, model.ParseCategory("knitting"), model.CategoryOther)
	gt.Equal(t, model.ParseCategory(""), model.CategoryOther)
}

func TestParseTLDState(t *testing.T) {
	gt.Equal(t, model.ParseTLDState("available"), model.TLDAvailable)
	gt.Equal(t, model.ParseTLDState("TAKEN"), model.TLDTaken)
	gt.Equal(t, model.ParseTLDState("maybe"), model.TLDUnknown)
}

func TestNewUnknownAnalysis(t *testing.T) {
	a := model.NewUnknownAnalysis("KnitCraft.io", "")
	gt.Equal(t, a.Handle, "KnitCraft.io")
	gt.Equal(t, a.Summary, model.DefaultUnknownSummary)
	gt.NotNil(t, a.TakenOn)
	gt.A(t, a.TakenOn).Length(0)
	gt.True(t, a.Degraded)
	gt.False(t, a.Taken())
}

func TestAnalysisTaken(t *testing.T) {
	a := &model.IdentityAnalysis{TLDStatus: map[string]model.TLDState{".com": model.TLDTaken}}
	gt.True(t, a.Taken())

	b := &model.IdentityAnalysis{TakenOn: []string{"Instagram"}}
	gt.True(t, b.Taken())
}

func TestNewUser(t *testing.T) {
	u := model.NewUser(" a@b.com ", "")
	gt.Equal(t, u.Email, "a@b.com")
	gt.Equal(t, u.Name, "a")

	named := model.NewUser("knitter@example.com", "Kit")
	gt.Equal(t, named.Name, "Kit")
}

func TestNamespaceOf(t *testing.T) {
	gt.Equal(t, model.NamespaceOf(nil), model.GuestNamespace)
	gt.Equal(t, model.NamespaceOf(&model.User{Email: "A@B.com"}), model.Namespace("a@b.com"))
	gt.Equal(t, model.NamespaceOf(&model.User{Email: " "}), model.GuestNamespace)
}

func TestSplitHandle(t *testing.T) {
	testCases := []struct {
		handle string
		name   string
		suffix string
	}{
		{"KnitCraft.io", "KnitCraft", ".io"},
		{"UrbanFlow.shop", "UrbanFlow", ".shop"},
		{"shop.Example.co.uk", "Example", ".co.uk"},
		{"CozyKnits", "CozyKnits", ""},
		{"@CozyKnits", "CozyKnits", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.handle, func(t *testing.T) {
			name, suffix := model.SplitHandle(tc.handle)
			gt.Equal(t, name, tc.name)
			gt.Equal(t, suffix, tc.suffix)
		})
	}
}

func TestAvatarDataURI(t *testing.T) {
	a := &model.Avatar{MIMEType: "image/jpeg", Data: []byte("abc")}
	gt.Equal(t, a.DataURI(), "data:image/jpeg;base64,YWJj")
}

func TestShareLinks(t *testing.T) {
	idea := &model.IdentityIdea{Handle: "KnitCraft.io", Explanation: "Cozy and crafty"}

	gt.S(t, model.SearchURL(idea.Handle)).Contains("q=%22KnitCraft.io%22")
	tw := model.TwitterShareURL(idea)
	gt.True(t, strings.HasPrefix(tw, "https://twitter.com/intent/tweet?text="))
	gt.S(t, tw).Contains("KnitCraft.io")
	gt.S(t, tw).Contains("url=https%3A%2F%2Fnamer.ai")
	gt.S(t, model.FacebookShareURL()).Contains("sharer.php?u=https%3A%2F%2Fnamer.ai")
}

func TestCopyIdeas(t *testing.T) {
	src := []*model.IdentityIdea{{Handle: "a"}}
	dst := model.CopyIdeas(src)
	dst[0].Handle = "b"
	gt.Equal(t, src[0].Handle, "a")
	gt.NotNil(t, model.CopyIdeas(nil))
}
