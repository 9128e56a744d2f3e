package service

import (
	"testing"

	"github.com/google/uuid"

	"caseflow_backend/internal/cases/transport"
	leadrepo "caseflow_backend/internal/leads/repository"
)

func strPtr(s string) *string { return &s }

func testLead() leadrepo.Lead {
	return leadrepo.Lead{
		ID:           uuid.New(),
		ClientName:   "Anita Desai",
		Company:      strPtr("Desai Textiles"),
		MobileNumber: "+919876543210",
	}
}

func TestPlanConversionFansOutPerBenefitType(t *testing.T) {
	lead := testLead()
	drafts := planConversion(lead, transport.ConvertLeadRequest{
		SchemeType:   "SOLAR_SUBSIDY",
		BenefitTypes: []string{"CAPITAL", "INTEREST", "TAX"},
	})

	if len(drafts) != 3 {
		t.Fatalf("expected 3 drafts, got %d", len(drafts))
	}
	want := []string{"CAPITAL", "INTEREST", "TAX"}
	for i, draft := range drafts {
		if draft.BenefitType == nil || *draft.BenefitType != want[i] {
			t.Errorf("draft %d benefit type = %v, want %s", i, draft.BenefitType, want[i])
		}
		if draft.SchemeType != "SOLAR_SUBSIDY" {
			t.Errorf("draft %d scheme type = %s", i, draft.SchemeType)
		}
	}
}

func TestPlanConversionEmptyBenefitTypesMakesOneGeneralCase(t *testing.T) {
	drafts := planConversion(testLead(), transport.ConvertLeadRequest{SchemeType: "SOLAR_SUBSIDY"})

	if len(drafts) != 1 {
		t.Fatalf("expected 1 draft, got %d", len(drafts))
	}
	if drafts[0].BenefitType != nil {
		t.Errorf("general case should carry no benefit type, got %q", *drafts[0].BenefitType)
	}
}

func TestPlanConversionDefaults(t *testing.T) {
	drafts := planConversion(testLead(), transport.ConvertLeadRequest{SchemeType: "SOLAR_SUBSIDY"})

	draft := drafts[0]
	if draft.ProcessStatus != "DOCUMENTS_PENDING" {
		t.Errorf("default status = %s, want DOCUMENTS_PENDING", draft.ProcessStatus)
	}
	if draft.Priority != "MEDIUM" {
		t.Errorf("default priority = %s, want MEDIUM", draft.Priority)
	}
}

func TestPlanConversionRequestPriorityWins(t *testing.T) {
	drafts := planConversion(testLead(), transport.ConvertLeadRequest{
		SchemeType: "SOLAR_SUBSIDY",
		Priority:   strPtr("URGENT"),
	})

	if drafts[0].Priority != "URGENT" {
		t.Errorf("priority = %s, want URGENT", drafts[0].Priority)
	}
}

func TestPlanConversionSnapshotPrefersSubmittedPayload(t *testing.T) {
	lead := testLead()
	lead.SubmittedPayload = map[string]any{
		"clientName":     "A. Desai",
		"company":        "Desai Mills",
		"consumerNumber": "CN-4411",
	}

	draft := planConversion(lead, transport.ConvertLeadRequest{SchemeType: "SOLAR_SUBSIDY"})[0]

	if draft.ClientName != "A. Desai" {
		t.Errorf("client name = %s, want payload value", draft.ClientName)
	}
	if draft.Company != "Desai Mills" {
		t.Errorf("company = %s, want payload value", draft.Company)
	}
	if draft.ConsumerNumber == nil || *draft.ConsumerNumber != "CN-4411" {
		t.Errorf("consumer number = %v, want CN-4411", draft.ConsumerNumber)
	}
}

func TestPlanConversionCompanyFallsBackToDash(t *testing.T) {
	lead := testLead()
	lead.Company = nil

	draft := planConversion(lead, transport.ConvertLeadRequest{SchemeType: "SOLAR_SUBSIDY"})[0]

	if draft.Company != "-" {
		t.Errorf("company = %q, want -", draft.Company)
	}
}

func TestPlanConversionNormalizesMobileNumber(t *testing.T) {
	lead := testLead()
	lead.MobileNumber = "98765 43210"

	draft := planConversion(lead, transport.ConvertLeadRequest{SchemeType: "SOLAR_SUBSIDY"})[0]

	if draft.MobileNumber != "+919876543210" {
		t.Errorf("mobile = %s, want +919876543210", draft.MobileNumber)
	}
}

func TestFirstDuplicate(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"no duplicates", []string{"CAPITAL", "INTEREST"}, ""},
		{"exact duplicate", []string{"CAPITAL", "CAPITAL"}, "CAPITAL"},
		{"case-insensitive duplicate", []string{"Capital", "CAPITAL"}, "CAPITAL"},
		{"whitespace duplicate", []string{"CAPITAL", " CAPITAL "}, " CAPITAL "},
		{"empty input", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstDuplicate(tt.values); got != tt.want {
				t.Errorf("firstDuplicate(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}

func TestDedupeIDsPreservesOrder(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	got := dedupeIDs([]uuid.UUID{a, b, a, b, a})

	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("dedupeIDs returned %v, want [%s %s]", got, a, b)
	}
}
