package validator_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ampproject/amphtml-sub099/internal/codes"
	"github.com/ampproject/amphtml-sub099/internal/collections"
	"github.com/ampproject/amphtml-sub099/internal/config"
	"github.com/ampproject/amphtml-sub099/internal/css/token"
	"github.com/ampproject/amphtml-sub099/internal/documents"
	"github.com/ampproject/amphtml-sub099/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codesOf(errs []token.ErrorToken) []codes.Code {
	out := make([]codes.Code, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestNewOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		opts := validator.DefaultOptions()
		require.Len(t, opts.RuleSets, 1)
		assert.Equal(t, config.RuleKeyframes, opts.RuleSets[0].Name)
		assert.True(t, opts.Policy.AllowRelative)
		assert.True(t, opts.Policy.AllowedProtocols.Has("https"))
		assert.True(t, opts.Policy.Attributes.Has("href"))
	})

	t.Run("names are normalized and deduplicated", func(t *testing.T) {
		cfg := config.Default()
		cfg.Rules = []string{" Keyframes", "keyframes"}
		cfg.AllowedProtocols = []string{"HTTPS:"}
		opts, err := validator.NewOptions(cfg)
		require.NoError(t, err)
		assert.Len(t, opts.RuleSets, 1)
		assert.Equal(t, []string{"https"}, collections.Sorted(opts.Policy.AllowedProtocols))
	})

	t.Run("unknown rule-set", func(t *testing.T) {
		cfg := config.Default()
		cfg.Rules = []string{"fonts"}
		_, err := validator.NewOptions(cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrInvalidValue)
		assert.Contains(t, err.Error(), "fonts")
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := config.Default()
		cfg.Workers = -1
		_, err := validator.NewOptions(cfg)
		assert.ErrorIs(t, err, config.ErrInvalidValue)
	})

	t.Run("no rule-sets", func(t *testing.T) {
		cfg := config.Default()
		cfg.Rules = nil
		opts, err := validator.NewOptions(cfg)
		require.NoError(t, err)
		assert.Empty(t, opts.RuleSets)
	})
}

func TestRuleSetNames(t *testing.T) {
	assert.Equal(t, []string{"keyframes"}, validator.RuleSetNames())
	rs, ok := validator.LookupRuleSet("keyframes")
	require.True(t, ok)
	assert.NotNil(t, rs.New())
	_, ok = validator.LookupRuleSet("nope")
	assert.False(t, ok)
}

func TestValidateStylesheet(t *testing.T) {
	opts := validator.DefaultOptions()

	t.Run("valid keyframes", func(t *testing.T) {
		assert.Empty(t, validator.ValidateStylesheet("@keyframes a { from { opacity: 0 } to { opacity: 1 } }", opts))
	})

	t.Run("rule-set errors in document order", func(t *testing.T) {
		errs := validator.ValidateStylesheet(".a {} @keyframes k { to {} }", opts)
		require.Len(t, errs, 2)
		assert.Equal(t, codes.CSSSyntaxDisallowedQualifiedRuleMustBeInsideKeyframe, errs[0].Code)
		assert.Equal(t, []string{"style", ".a"}, errs[0].Params)
		assert.Equal(t, token.Pos{Offset: 0, Line: 1, Col: 1}, errs[0].Pos)
		assert.Equal(t, codes.CSSSyntaxQualifiedRuleHasNoDeclarations, errs[1].Code)
		assert.Equal(t, []string{"style", "to"}, errs[1].Params)
		assert.Equal(t, 22, errs[1].Pos.Col)
	})

	t.Run("syntax and rule-set errors merge", func(t *testing.T) {
		errs := validator.ValidateStylesheet(".a { color: red }\n@keyframes k { to { top: 0 }", opts)
		assert.Equal(t, []codes.Code{
			codes.CSSSyntaxDisallowedQualifiedRuleMustBeInsideKeyframe,
			codes.CSSSyntaxUnterminatedBlock,
		}, codesOf(errs))
		assert.Equal(t, 2, errs[1].Pos.Line)
	})

	t.Run("syntax only without rule-sets", func(t *testing.T) {
		assert.Empty(t, validator.ValidateStylesheet(".a { color: red }", validator.Options{}))
		errs := validator.ValidateStylesheet("} .a {}", validator.Options{})
		assert.Equal(t, []codes.Code{codes.CSSSyntaxUnmatchedCloseBrace}, codesOf(errs))
	})
}

func TestValidateURL(t *testing.T) {
	policy := validator.DefaultOptions().Policy
	strict := policy
	strict.AllowRelative = false

	tests := []struct {
		name   string
		value  string
		policy validator.URLPolicy
		code   codes.Code
		params []string
	}{
		{name: "absolute https", value: "https://example.com/a.png", policy: policy},
		{name: "relative allowed", value: "/a.png", policy: policy},
		{name: "protocol case and whitespace", value: "  HTTPS://example.com ", policy: policy},
		{name: "data url", value: "data:image/png;base64,AAAA", policy: policy},
		{
			name: "empty", value: "", policy: policy,
			code: codes.MissingURL, params: []string{"src", "amp-img"},
		},
		{
			name: "whitespace only", value: " \t\n", policy: policy,
			code: codes.MissingURL, params: []string{"src", "amp-img"},
		},
		{
			name: "disallowed protocol", value: "javascript:alert(1)", policy: policy,
			code: codes.InvalidURLProtocol, params: []string{"src", "amp-img", "javascript"},
		},
		{
			name: "protocol is reported lower-cased", value: "JavaScript:x", policy: policy,
			code: codes.InvalidURLProtocol, params: []string{"src", "amp-img", "javascript"},
		},
		{
			name: "bad percent escape", value: "https://example.com/%zz", policy: policy,
			code: codes.InvalidURL, params: []string{"src", "amp-img", "https://example.com/%zz"},
		},
		{
			name: "control character", value: "/a\x01b", policy: policy,
			code: codes.InvalidURL, params: []string{"src", "amp-img", "/a\x01b"},
		},
		{
			name: "relative disallowed", value: "a.png", policy: strict,
			code: codes.DisallowedRelativeURL, params: []string{"src", "amp-img", "a.png"},
		},
		{name: "absolute with relative disallowed", value: "https://a", policy: strict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validator.ValidateURL("src", "amp-img", tt.value, tt.policy)
			if tt.code == codes.UnknownCode {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, tt.code, errs[0].Code)
			assert.Equal(t, tt.params, errs[0].Params)
			assert.Equal(t, token.Pos{Line: 1, Col: 1}, errs[0].Pos)
		})
	}
}

const page = "<!doctype html>\n" +
	"<html amp>\n" +
	"<head>\n" +
	"<style amp-custom>.a { color: red </style>\n" +
	"<style amp-keyframes>.b { top: 0 }</style>\n" +
	"<style>.c {}</style>\n" +
	"</head>\n" +
	"<body><a href=\"ftp:x\">x</a><img src=\"javascript:y\"></body>\n" +
	"</html>\n"

func TestValidateDocument(t *testing.T) {
	report, err := validator.ValidateDocument(page, validator.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, report.Errors, 3)
	assert.False(t, report.Pass())
	assert.Equal(t, "FAIL", report.Status())

	unterminated := report.Errors[0]
	assert.Equal(t, codes.CSSSyntaxUnterminatedBlock, unterminated.Code)
	assert.Equal(t, 4, unterminated.Line)
	assert.Equal(t, 22, unterminated.Col)
	assert.Equal(t, "{", page[unterminated.Offset:unterminated.Offset+1])

	keyframes := report.Errors[1]
	assert.Equal(t, codes.CSSSyntaxDisallowedQualifiedRuleMustBeInsideKeyframe, keyframes.Code)
	assert.Equal(t, 5, keyframes.Line)
	assert.Equal(t, 22, keyframes.Col)
	assert.Equal(t, "CSS syntax error in tag 'style' - qualified rule '.b' must be located inside of a keyframe.", keyframes.Message)

	protocol := report.Errors[2]
	assert.Equal(t, codes.InvalidURLProtocol, protocol.Code)
	assert.Equal(t, []string{"src", "img", "javascript"}, protocol.Params)
	assert.Equal(t, 8, protocol.Line)
	assert.Equal(t, 38, protocol.Col)
}

func TestValidateDocumentClean(t *testing.T) {
	report, err := validator.ValidateDocument(
		"<style amp-keyframes>@keyframes k { to { opacity: 1 } }</style><a href=\"/x\">x</a>",
		validator.DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, report.Errors)
	assert.True(t, report.Pass())
	assert.Equal(t, "PASS", report.Status())
}

func TestReportJSON(t *testing.T) {
	report := validator.NewReport(validator.ValidateURL("href", "a", "", validator.DefaultOptions().Policy))
	report.Source = "x.html"

	b, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"source": "x.html",
		"errors": [{
			"code": "MISSING_URL",
			"severity": "ERROR",
			"line": 1, "col": 1, "offset": 0,
			"params": ["href", "a"],
			"message": "Missing URL for attribute 'href' in tag 'a'."
		}]
	}`, string(b))
}

func TestValidate(t *testing.T) {
	opts := validator.DefaultOptions()

	t.Run("kind from name", func(t *testing.T) {
		report, err := validator.Validate(validator.Input{Name: "a.css", Content: ".x {}"}, opts)
		require.NoError(t, err)
		assert.Equal(t, "a.css", report.Source)
		require.Len(t, report.Errors, 1)
	})

	t.Run("explicit kind wins", func(t *testing.T) {
		report, err := validator.Validate(validator.Input{
			Name: "page", Content: "<a href=''>x</a>", Kind: documents.KindHTML,
		}, opts)
		require.NoError(t, err)
		require.Len(t, report.Errors, 1)
		assert.Equal(t, codes.MissingURL, report.Errors[0].Code)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := validator.Validate(validator.Input{Name: "a.txt"}, opts)
		assert.ErrorIs(t, err, validator.ErrUnsupportedInput)
		assert.Contains(t, err.Error(), "a.txt")
	})
}

func TestValidateMany(t *testing.T) {
	inputs := []validator.Input{
		{Name: "ok.css", Content: "@keyframes a { to { top: 0 } }"},
		{Name: "bad.css", Content: ".x { top: 0 }"},
		{Name: "page.html", Content: "<img src=\"javascript:x\">"},
		{Name: "notes.txt", Content: "hi"},
	}

	for _, workers := range []int{0, 1, 3, 16} {
		opts := validator.DefaultOptions()
		opts.Workers = workers
		results := validator.ValidateMany(context.Background(), inputs, opts)
		require.Len(t, results, len(inputs))

		for i, r := range results {
			assert.Equal(t, inputs[i].Name, r.Name, "results keep input order")
		}
		assert.True(t, results[0].Report.Pass())
		assert.False(t, results[1].Report.Pass())
		assert.Equal(t, codes.InvalidURLProtocol, results[2].Report.Errors[0].Code)
		assert.ErrorIs(t, results[3].Err, validator.ErrUnsupportedInput)
		assert.Nil(t, results[3].Report)
	}
}

func TestValidateManyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inputs := []validator.Input{{Name: "a.css"}, {Name: "b.css"}}
	results := validator.ValidateMany(ctx, inputs, validator.DefaultOptions())
	require.Len(t, results, 2)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
		assert.Nil(t, r.Report)
	}
}

func TestValidateManyEmpty(t *testing.T) {
	assert.Empty(t, validator.ValidateMany(context.Background(), nil, validator.DefaultOptions()))
}
