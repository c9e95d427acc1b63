package accountmesh

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/accountmesh/core"
	"github.com/hupe1980/accountmesh/plan"
	"github.com/hupe1980/accountmesh/research"
	"github.com/hupe1980/accountmesh/tool"
)

// StateKeyAccountPlan is the session state key holding the most recent
// account plan document produced through the update tool.
const StateKeyAccountPlan = "account_plan"

// planTools builds the assistant's tool set: company research plus section
// level account plan editing.
func planTools(aggregator *research.Aggregator) []tool.Tool {
	return []tool.Tool{
		NewResearchCompanyTool(aggregator),
		NewUpdateAccountPlanTool(),
	}
}

// NewResearchCompanyTool exposes the aggregator as the research_company
// function tool. The tool result is the complete research.Result serialized
// as JSON; it carries the conflict evidence the assistant reasons about.
func NewResearchCompanyTool(aggregator *research.Aggregator) tool.Tool {
	return tool.NewFunctionTool(
		"research_company",
		"Gather public information about a company from multiple sources and detect conflicting founding years.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"company_name": map[string]any{
					"type":        "string",
					"description": "Name of the company to research",
				},
			},
			"required": []string{"company_name"},
		},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			companyName, _ := args["company_name"].(string)
			if companyName == "" {
				return nil, fmt.Errorf("company_name must not be empty")
			}

			result := aggregator.Research(toolCtx.Context(), companyName)

			payload, err := json.Marshal(result)
			if err != nil {
				return nil, fmt.Errorf("serialize research result: %w", err)
			}
			return string(payload), nil
		},
	)
}

// NewUpdateAccountPlanTool exposes the section editor as the
// update_account_plan function tool. The updated document is additionally
// recorded in session state under StateKeyAccountPlan so later turns can
// retrieve the latest version.
func NewUpdateAccountPlanTool() tool.Tool {
	return tool.NewFunctionTool(
		"update_account_plan",
		"Replace or append a named '## ' section of an account plan document and return the updated document.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"existing_plan_markdown": map[string]any{
					"type":        "string",
					"description": "Current full account plan in markdown (may be empty)",
				},
				"section_name": map[string]any{
					"type":        "string",
					"description": "Exact section heading to update, e.g. 'Key Challenges and Risks'",
				},
				"new_section_body": map[string]any{
					"type":        "string",
					"description": "New body text for the section",
				},
			},
			"required": []string{"existing_plan_markdown", "section_name", "new_section_body"},
		},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			existing, _ := args["existing_plan_markdown"].(string)
			sectionName, _ := args["section_name"].(string)
			newBody, _ := args["new_section_body"].(string)

			updated := plan.SetSection(existing, sectionName, newBody)
			toolCtx.SetState(StateKeyAccountPlan, updated)

			return updated, nil
		},
	)
}
