package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueDimensions(t *testing.T) {
	dims := ValueDimensions()
	assert.Equal(t, []string{
		DimensionEconomic, DimensionSocial, DimensionEnvironmental,
		DimensionCultural, DimensionPolicyAlignment, DimensionDataQuality,
	}, dims)

	dims[0] = "changed"
	assert.Equal(t, DimensionEconomic, ValueDimensions()[0], "返回副本，不影响内部顺序")

	for i, info := range GetAllDimensions() {
		assert.Equal(t, i, info.Order)
		assert.NotEmpty(t, info.Tooltip, info.Name)
	}
}

func TestValidateDimension(t *testing.T) {
	assert.NoError(t, ValidateDimension("Policy Alignment"))
	assert.ErrorIs(t, ValidateDimension("policy alignment"), ErrUnknownDimension, "区分大小写")
	assert.ErrorIs(t, ValidateDimension(""), ErrUnknownDimension)
}

func TestWeights(t *testing.T) {
	for _, d := range ValueDimensions() {
		assert.Equal(t, DefaultWeight, DefaultWeights()[d])
		assert.Equal(t, NeutralWeight, NeutralWeights()[d])
	}
	assert.Len(t, DefaultWeights(), 6)
}

func TestUseCases(t *testing.T) {
	ucs := UseCases()
	assert.Len(t, ucs, 9)
	assert.Equal(t, "Planning & Development", ucs[0])
	assert.Equal(t, "Climate Resilience & Adaptation", ucs[8])

	for _, uc := range ucs {
		assert.NoError(t, ValidateUseCase(uc))
	}
	assert.ErrorIs(t, ValidateUseCase("Research & Innovation"), ErrUnknownUseCase)
}
