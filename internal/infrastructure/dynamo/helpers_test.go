package dynamo

import (
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrKey(t *testing.T) {
	key := strKey("loan_id", "L1")
	require.Len(t, key, 1)
	s, ok := key["loan_id"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "L1", s.Value)
}

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	expr, names, values, err := buildUpdateExpr(map[string]interface{}{"status": "approved"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", expr)
	assert.Equal(t, map[string]string{"#f0": "status"}, names)
	s, ok := values[":v0"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "approved", s.Value)
}

func TestBuildUpdateExpr_MultipleFields(t *testing.T) {
	expr, names, values, err := buildUpdateExpr(map[string]interface{}{
		"status":          "approved",
		"approved_amount": int64(50000),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(expr, "SET "))
	assert.Contains(t, expr, ", ")
	assert.Len(t, names, 2)
	assert.Len(t, values, 2)
}

func TestBuildUpdateExpr_Empty(t *testing.T) {
	_, _, _, err := buildUpdateExpr(map[string]interface{}{})
	require.Error(t, err)
}
