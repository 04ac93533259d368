package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_FormatSelect_Columns_NoData(t *testing.T) {
	result := FormatColumnSelect([]string{})

	assert.Equal(t, len(result), 0)
}

func Test_FormatSelect_Columns(t *testing.T) {
	result := FormatColumnSelect([]string{"name", "status"})

	assert.Equal(t, len(result), 2)

	for _, item := range result {
		if item != "name" && item != "status" {
			t.Error("item not in possible list")
		}
	}
}

func Test_FormatSelect_Alias(t *testing.T) {
	result := FormatColumnSelect([]string{"name", "status"}, "pr")

	assert.Equal(t, len(result), 2)

	for _, item := range result {
		if item != "pr.name" && item != "pr.status" {
			t.Error("item not in possible list")
		}
	}
}

func Test_FormatSelect_AliasDestination(t *testing.T) {
	result := FormatColumnSelect([]string{"name", "status"}, "pr", "run")

	assert.Equal(t, len(result), 2)

	for _, item := range result {
		if item != `pr.name "run.name"` && item != `pr.status "run.status"` {
			t.Error("item not in possible list")
		}
	}
}
