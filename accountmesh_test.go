package accountmesh

import (
	"context"
	"strings"
	"testing"

	"github.com/hupe1980/accountmesh/core"
	"github.com/hupe1980/accountmesh/model"
	"github.com/hupe1980/accountmesh/plan"
	"github.com/hupe1980/accountmesh/research"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedSource(name, text string) research.Source {
	return research.SourceFunc{SourceName: name, Fn: func(context.Context, string) (string, error) {
		return text, nil
	}}
}

func newTestMesh(mock *model.MockModel, sources ...research.Source) *AccountMesh {
	return New(mock, func(o *Options) {
		o.Sources = sources
	})
}

func TestAccountMesh_ResearchDirect(t *testing.T) {
	mesh := newTestMesh(model.NewMockModel("mock", "mock"),
		fixedSource("encyclopedia", "Founded in 1946 and again 1958."))

	res := mesh.Research(context.Background(), "Sony")

	assert.Equal(t, []int{1946, 1958}, res.ExtractedYears)
	assert.True(t, res.HasConflict)
	assert.False(t, res.NoExternalData)
}

func TestAccountMesh_ResearchFallbackWithoutSources(t *testing.T) {
	mesh := newTestMesh(model.NewMockModel("mock", "mock"))

	res := mesh.Research(context.Background(), "IBM")

	assert.True(t, res.NoExternalData)
	assert.True(t, res.HasConflict)
	assert.Equal(t, []int{1896, 1911, 1924}, res.ExtractedYears)
}

func TestAccountMesh_UpdatePlan(t *testing.T) {
	mesh := newTestMesh(model.NewMockModel("mock", "mock"))

	doc := mesh.UpdatePlan("", "Company Overview", "  Sony is a conglomerate.  ")
	assert.Equal(t, "## Company Overview\nSony is a conglomerate.\n", doc)

	doc = mesh.UpdatePlan(doc, "Company Overview", "Updated overview.")
	assert.Equal(t, "## Company Overview\nUpdated overview.\n", doc)
}

func TestAccountMesh_ChatDrivesResearchTool(t *testing.T) {
	mock := model.NewMockModel("mock", "mock")
	mock.QueueResponse(model.Response{
		Content: core.Content{Role: "assistant", Parts: []core.Part{
			core.FunctionCallPart{FunctionCall: core.FunctionCall{
				ID:        "fc-1",
				Name:      "research_company",
				Arguments: `{"company_name":"Sony"}`,
			}},
		}},
		FinishReason: "tool_calls",
	})
	mock.QueueResponse(model.Response{
		Content: core.Content{Role: "assistant", Parts: []core.Part{
			core.TextPart{Text: "I found conflicting years: 1945, 1946, 1958."},
		}},
		FinishReason: "stop",
	})

	mesh := newTestMesh(mock) // no sources: synthetic fallback path

	reply, events, err := mesh.Chat(context.Background(), "s1", "Create an account plan for Sony")
	require.NoError(t, err)
	assert.Equal(t, "I found conflicting years: 1945, 1946, 1958.", reply)
	require.Len(t, events, 3)

	responses := events[1].GetFunctionResponses()
	require.Len(t, responses, 1)
	payload, ok := responses[0].Response.(string)
	require.True(t, ok)
	assert.Contains(t, payload, `"has_conflict":true`)
	assert.Contains(t, payload, "1945")
	assert.Contains(t, payload, `"no_external_data":true`)
}

func TestAccountMesh_ChatUpdatePlanToolRecordsState(t *testing.T) {
	mock := model.NewMockModel("mock", "mock")
	mock.QueueResponse(model.Response{
		Content: core.Content{Role: "assistant", Parts: []core.Part{
			core.FunctionCallPart{FunctionCall: core.FunctionCall{
				ID:        "fc-1",
				Name:      "update_account_plan",
				Arguments: `{"existing_plan_markdown":"## Company Overview\nOld\n","section_name":"Key Challenges and Risks","new_section_body":"Regulatory risk."}`,
			}},
		}},
		FinishReason: "tool_calls",
	})
	mock.QueueResponse(model.Response{
		Content: core.Content{Role: "assistant", Parts: []core.Part{
			core.TextPart{Text: "Updated the risks section."},
		}},
		FinishReason: "stop",
	})

	mesh := newTestMesh(mock)

	reply, _, err := mesh.Chat(context.Background(), "s1", "Highlight regulatory risk")
	require.NoError(t, err)
	assert.Equal(t, "Updated the risks section.", reply)

	sess, err := mesh.Session("s1")
	require.NoError(t, err)

	v, ok := sess.GetState(StateKeyAccountPlan)
	require.True(t, ok)
	doc, _ := v.(string)
	assert.Equal(t, "## Company Overview\nOld\n## Key Challenges and Risks\nRegulatory risk.\n", doc)
}

func TestAssistantInstruction_ListsRequiredSections(t *testing.T) {
	instruction := assistantInstruction()
	for _, name := range plan.RequiredSections {
		assert.True(t, strings.Contains(instruction, "## "+name), "missing heading %q", name)
	}
	assert.Contains(t, instruction, "research_company")
	assert.Contains(t, instruction, "update_account_plan")
}
