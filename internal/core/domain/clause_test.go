package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClauseTypes_Order(t *testing.T) {
	assert.Equal(t, []ClauseType{
		ClauseTermination,
		ClauseLiability,
		ClauseIndemnification,
		ClauseConfidentiality,
		ClauseCopyright,
	}, ClauseTypes())
}

func TestClauseType_Query(t *testing.T) {
	for _, ct := range ClauseTypes() {
		t.Run(ct.String(), func(t *testing.T) {
			assert.True(t, ct.IsValid())
			assert.NotEmpty(t, ct.Query())
		})
	}

	assert.Contains(t, ClauseTermination.Query(), "termination clause")
	assert.Contains(t, ClauseCopyright.Query(), "intellectual property")
}

func TestClauseType_Unknown(t *testing.T) {
	ct := ClauseType("Arbitration")
	assert.False(t, ct.IsValid())
	assert.Empty(t, ct.Query())
}

func TestParseClauseType(t *testing.T) {
	ct, err := ParseClauseType("termination")
	require.NoError(t, err)
	assert.Equal(t, ClauseTermination, ct)

	ct, err = ParseClauseType(" CONFIDENTIALITY ")
	require.NoError(t, err)
	assert.Equal(t, ClauseConfidentiality, ct)

	_, err = ParseClauseType("warranty")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
