// Package report renders the console walkthrough of the contact requests API: the sample record,
// the response the service answers with, and curl commands a developer can copy.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gitlab.com/dirk.krummacker/contact-requests-service/pkg/model"
)

// ContactRequestsPath is the collection endpoint of the service.
const ContactRequestsPath = "/admin/contact-requests"

// StatsPath is the statistics endpoint of the service.
const StatsPath = ContactRequestsPath + "/stats"

// Options hold the URLs and the migration command mentioned in the report.
type Options struct {
	APIBaseURL       string
	DemoURL          string
	MigrationCommand string
}

// DefaultOptions returns the production URLs.
func DefaultOptions() Options {
	return Options{
		APIBaseURL:       "https://api.qava.ai",
		DemoURL:          "https://qava.ai/demo",
		MigrationCommand: "go run ./cmd/migration up",
	}
}

// SampleContactRecord returns the example submission shown in the report and sent by
// `client submit`.
func SampleContactRecord() model.Submission {
	return model.Submission{
		FirstName:      "Test",
		LastName:       "User",
		Email:          "test@example.com",
		Company:        "Test Company",
		CompanySize:    model.CompanySizeStartup,
		Country:        model.CountryUnitedStates,
		AdditionalInfo: "This is a test submission from the demo form",
		Source:         "demo-page",
	}
}

// ExpectedResponse returns an illustrative answer to a POST of the sample record. The id and the
// timestamps are placeholders, nothing is generated.
func ExpectedResponse() model.Response[model.ContactRequest] {
	stamp := time.Date(2025, time.January, 27, 10, 30, 0, 0, time.UTC)
	return model.Response[model.ContactRequest]{
		Success: true,
		Message: "Contact request submitted successfully",
		Data: model.ContactRequest{
			Id:         "uuid-here",
			Submission: SampleContactRecord(),
			Status:     model.StatusNew,
			CreatedAt:  stamp,
			UpdatedAt:  stamp,
		},
	}
}

// Write renders the report to w. The output only depends on opts.
func Write(w io.Writer, opts Options) error {
	sample := SampleContactRecord()
	pretty, err := marshal(sample, true)
	if err != nil {
		return fmt.Errorf("could not serialize sample record: %w", err)
	}
	compact, err := marshal(sample, false)
	if err != nil {
		return fmt.Errorf("could not serialize sample record: %w", err)
	}
	expected, err := marshal(ExpectedResponse(), true)
	if err != nil {
		return fmt.Errorf("could not serialize expected response: %w", err)
	}

	collection := strings.TrimRight(opts.APIBaseURL, "/") + ContactRequestsPath
	stats := strings.TrimRight(opts.APIBaseURL, "/") + StatsPath

	var b bytes.Buffer
	b.WriteString("🧪 Testing Contact Requests API\n")
	b.WriteString(strings.Repeat("=", 33) + "\n")

	fmt.Fprintf(&b, "\n📡 API Endpoint: POST %s\n", collection)

	b.WriteString("\n📦 Test Data:\n")
	b.WriteString(pretty + "\n")

	b.WriteString("\n🔍 Expected Response:\n")
	b.WriteString(expected + "\n")

	b.WriteString("\n✅ Test Commands:\n")
	fmt.Fprintf(&b, "curl -X POST %s \\\n", collection)
	b.WriteString("  -H 'Content-Type: application/json' \\\n")
	fmt.Fprintf(&b, "  -d %s\n", shellQuote(compact))

	b.WriteString("\n📊 Get All Contact Requests:\n")
	fmt.Fprintf(&b, "curl %s\n", collection)

	b.WriteString("\n📈 Get Statistics:\n")
	fmt.Fprintf(&b, "curl %s\n", stats)

	b.WriteString("\n🎯 Demo Form Integration:\n")
	fmt.Fprintf(&b, "The demo form at %s will now submit to this endpoint\n", opts.DemoURL)
	b.WriteString("and display success/error messages to users.\n")

	b.WriteString("\n🚀 Ready for Deployment!\n")
	b.WriteString("1. Deploy the backend changes\n")
	fmt.Fprintf(&b, "2. Run database migration: %s\n", opts.MigrationCommand)
	b.WriteString("3. Test the live demo form\n")

	if _, err := w.Write(b.Bytes()); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}
	return nil
}

// marshal serializes v without HTML escaping, either compact or indented by two spaces.
func marshal(v any, indent bool) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// shellQuote wraps s in single quotes for a POSIX shell. Embedded single quotes are closed,
// escaped and reopened.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
