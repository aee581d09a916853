// Package sarifreport renders the scan command's findings as a SARIF log
// (§4.16), grounded on the teacher's own SARIF formatter: one run, rules
// built from the finding classes present, note-level results since an
// unresolved name in a partially-indexed workspace is expected and common,
// never a defect in the scanned code.
package sarifreport

import (
	"encoding/json"
	"io"

	sarif "github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/roblourens/php-language-server/fqn"
)

// Kind classifies a finding the scan command surfaces.
type Kind string

const (
	// KindUnresolvedReference is a reference ReferenceToFqn returned
	// (fqn.FQN(""), false) for.
	KindUnresolvedReference Kind = "unresolved-reference"
	// KindUnresolvedType is an expression whose inferred type is Mixed at
	// a position (a member access or call target) where a narrower type
	// was expected.
	KindUnresolvedType Kind = "unresolved-type"
)

// Finding is one scan result: a finding class, its source location, and
// an optional candidate FQN that Write appends to the result message.
type Finding struct {
	Kind      Kind
	URI       string
	Line      int
	Candidate fqn.FQN // "" when the resolver had no candidate at all
	Message   string
}

const informationURI = "https://github.com/roblourens/php-language-server"

// Write renders findings as a SARIF 2.1.0 log to w.
func Write(w io.Writer, findings []Finding) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}
	run := sarif.NewRunWithInformationURI("php-language-server", informationURI)

	buildRules(findings, run)
	for _, f := range findings {
		buildResult(f, run)
	}

	report.AddRun(run)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func buildRules(findings []Finding, run *sarif.Run) {
	seen := make(map[Kind]bool)
	for _, f := range findings {
		if seen[f.Kind] {
			continue
		}
		seen[f.Kind] = true
		run.AddRule(string(f.Kind)).
			WithName(string(f.Kind)).
			WithDescription(ruleDescription(f.Kind)).
			WithHelpURI(informationURI).
			WithDefaultConfiguration(sarif.NewReportingConfiguration().WithLevel("note"))
	}
}

func ruleDescription(k Kind) string {
	switch k {
	case KindUnresolvedReference:
		return "A reference could not be resolved to a definition."
	case KindUnresolvedType:
		return "An expression's type could not be narrowed past Mixed."
	default:
		return string(k)
	}
}

func buildResult(f Finding, run *sarif.Run) {
	message := f.Message
	if message == "" {
		message = string(f.Kind)
	}
	if f.Candidate != "" {
		message += " (candidate: " + f.Candidate.String() + ")"
	}

	result := run.CreateResultForRule(string(f.Kind)).
		WithLevel("note").
		WithMessage(sarif.NewTextMessage(message))

	location := sarif.NewLocation().
		WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(f.URI)).
				WithRegion(sarif.NewRegion().WithStartLine(f.Line)),
		)
	result.AddLocation(location)
}
