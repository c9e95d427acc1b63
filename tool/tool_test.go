package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/accountmesh/core"
	"github.com/hupe1980/accountmesh/internal/util"
	"github.com/stretchr/testify/assert"
)

// -------------------- Schema & Validation Tests --------------------

type sampleSchema struct {
	A string `json:"a" description:"Field A"`
	B *int   `json:"b" description:"Optional pointer field"`
	C int    `json:"c,omitempty" description:"Omit empty field"`
}

func TestCreateSchema(t *testing.T) {
	schema := util.CreateSchema(sampleSchema{})
	props, ok := schema["properties"].(map[string]any)
	assert.True(t, ok)
	// Properties present
	assert.Contains(t, props, "a")
	assert.Contains(t, props, "b")
	assert.Contains(t, props, "c")
	// Required only includes non-pointer, non-omitempty exported fields
	req, _ := schema["required"].([]string)
	if req == nil { // reflection may produce []any
		ifaceReq, _ := schema["required"].([]any)
		for _, v := range ifaceReq {
			req = append(req, v.(string))
		}
	}
	assert.ElementsMatch(t, []string{"a"}, req)
}

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "integer"},
		},
		// Use []any to mirror possible JSON decoded schema shape
		"required": []any{"x"},
	}

	// Success
	err := util.ValidateParameters(map[string]any{"x": 5}, schema)
	assert.NoError(t, err)

	// Missing required
	err = util.ValidateParameters(map[string]any{}, schema)
	assert.Error(t, err)
	if vErr, ok := err.(*ValidationError); ok {
		assert.Equal(t, "x", vErr.Field)
	} else {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	// Wrong type
	err = util.ValidateParameters(map[string]any{"x": "not-int"}, schema)
	assert.Error(t, err)
	if vErr, ok := err.(*ValidationError); ok {
		assert.Contains(t, vErr.Message, "expected type integer")
	} else {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

// -------------------- FunctionTool Tests --------------------

func newTestToolContext() *core.ToolContext {
	return core.NewToolContext(context.Background(), core.NewSession("test-session"), "inv-1", "fc-1", nil)
}

func TestFunctionTool_Success(t *testing.T) {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
			"b": map[string]any{"type": "number"},
		},
		"required": []any{"a", "b"},
	}

	sum := NewFunctionTool("calculate_sum", "Calculate the sum of two numbers", params,
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			return args["a"].(float64) + args["b"].(float64), nil
		})

	assert.Equal(t, "calculate_sum", sum.Name())
	assert.Equal(t, "Calculate the sum of two numbers", sum.Description())
	assert.Equal(t, params, sum.Parameters())

	result, err := sum.Call(newTestToolContext(), map[string]any{"a": 2.0, "b": 3.5})
	assert.NoError(t, err)
	assert.Equal(t, 5.5, result)
}

func TestFunctionTool_ValidationError(t *testing.T) {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
		},
		"required": []any{"a"},
	}

	ft := NewFunctionTool("needs_a", "Requires argument a", params,
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			return nil, nil
		})

	_, err := ft.Call(newTestToolContext(), map[string]any{})
	assert.Error(t, err)
	toolErr, ok := err.(*ToolError)
	assert.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
	assert.Equal(t, "needs_a", toolErr.Tool)
}

func TestFunctionTool_ExecutionError(t *testing.T) {
	ft := NewFunctionTool("fails", "Always fails",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			return nil, errors.New("downstream unavailable")
		})

	_, err := ft.Call(newTestToolContext(), map[string]any{})
	assert.Error(t, err)
	toolErr, ok := err.(*ToolError)
	assert.True(t, ok)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Equal(t, "downstream unavailable", toolErr.Message)
}

func TestFunctionTool_CustomToolErrorForwarded(t *testing.T) {
	custom := NewToolError("custom", "rate limited", "RATE_LIMITED")
	ft := NewFunctionTool("custom", "Returns a custom error",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			return nil, custom
		})

	_, err := ft.Call(newTestToolContext(), map[string]any{})
	assert.Same(t, custom, err)
}

func TestFunctionTool_FromStruct(t *testing.T) {
	type args struct {
		CompanyName string `json:"company_name" description:"Name of the company"`
	}

	ft := NewFunctionToolFromStruct("research_company", "Research a company", args{},
		func(tc *core.ToolContext, a map[string]any) (any, error) {
			return a["company_name"], nil
		})

	result, err := ft.Call(newTestToolContext(), map[string]any{"company_name": "Sony"})
	assert.NoError(t, err)
	assert.Equal(t, "Sony", result)

	_, err = ft.Call(newTestToolContext(), map[string]any{})
	assert.Error(t, err)
}

func TestToolError_Error(t *testing.T) {
	withCode := &ToolError{Tool: "x", Message: "failed", Code: "EXECUTION_ERROR"}
	assert.Equal(t, "tool error [EXECUTION_ERROR] in x: failed", withCode.Error())

	noCode := &ToolError{Tool: "x", Message: "failed"}
	assert.Equal(t, "tool error in x: failed", noCode.Error())
}
