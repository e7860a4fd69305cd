package template

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryResolve(t *testing.T) {
	registry := NewRegistry()

	cfg, err := registry.Resolve("leave-approval")
	require.NoError(t, err)
	assert.Equal(t, "leave-approval", cfg.Name)

	_, hasApprove := cfg.Action("approve")
	assert.True(t, hasApprove)

	reject, hasReject := cfg.Action("reject")
	require.True(t, hasReject)
	assert.True(t, reject.RequiresRemarks, "reject must require a justification")
	assert.True(t, reject.Rejects, "reject must resolve to the rejection outcome")

	_, hasEscalate := cfg.Action("escalate")
	assert.False(t, hasEscalate)
}

func TestRegistryResolveUnknown(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Resolve("no-such-template")
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register(Config{
		Name:    "leave-approval",
		Subject: "x",
		Actions: []ActionSpec{{Name: "approve", Label: "Approve"}},
	})
	assert.Error(t, err)
}

func testContext() Context {
	return Context{
		TaskID:        7,
		ApproverID:    "u-1",
		ApproverName:  "Dana Reyes",
		ApproverEmail: "dana@example.com",
		SourceModule:  "leave",
		SourceID:      "LV-42",
		TemplateName:  "leave-approval",
		ApprovalData: map[string]interface{}{
			"employee_name": "Sam Ortiz",
			"leave_type":    "Vacation",
			"start_date":    "2026-09-01",
			"end_date":      "2026-09-05",
			"days":          5,
			"reason":        "Family trip",
		},
		BaseURL:     "http://localhost:8080",
		CompanyName: "Acme Inc",
	}
}

func TestRenderLeaveApproval(t *testing.T) {
	registry := NewRegistry()
	renderer := NewRenderer()

	cfg, err := registry.Resolve("leave-approval")
	require.NoError(t, err)

	buttons := []Button{
		{Label: "Approve", URL: "http://localhost:8080/approvals/respond?token=abc&action=approve", Style: "primary"},
		{Label: "Reject", URL: "http://localhost:8080/approvals/remarks?token=def&action=reject", Style: "danger"},
	}

	subject, html, err := renderer.Render(cfg, testContext(), buttons)
	require.NoError(t, err)

	assert.Equal(t, "Leave request LV-42 from Sam Ortiz needs your approval", subject)
	assert.Contains(t, html, "Dana Reyes")
	assert.Contains(t, html, "Sam Ortiz")
	assert.Contains(t, html, "action=approve")
	assert.Contains(t, html, "/approvals/remarks?token=def")
	assert.Contains(t, html, "Acme Inc")
	assert.False(t, strings.Contains(html, "{{"), "layout placeholders must all resolve")
}

func TestRenderFailsWithoutApprover(t *testing.T) {
	registry := NewRegistry()
	renderer := NewRenderer()

	cfg, err := registry.Resolve("leave-approval")
	require.NoError(t, err)

	tctx := testContext()
	tctx.ApproverName = ""

	_, _, err = renderer.Render(cfg, tctx, []Button{{Label: "Approve", URL: "http://x", Style: "primary"}})
	assert.ErrorIs(t, err, ErrRenderFailed)
}

func TestRenderFailsOnUnresolvedSubject(t *testing.T) {
	renderer := NewRenderer()

	cfg := Config{
		Name:       "custom",
		Subject:    "Request {{missing_field}} pending",
		DataMapper: identityMapper,
		Actions:    []ActionSpec{{Name: "approve", Label: "Approve"}},
	}

	_, _, err := renderer.Render(cfg, testContext(), []Button{{Label: "Approve", URL: "http://x"}})
	assert.ErrorIs(t, err, ErrRenderFailed)
}
