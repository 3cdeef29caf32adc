package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ionicdose/dilution"
)

func TestDoseInput_Request(t *testing.T) {
	var in DoseInput
	require.NoError(t, json.Unmarshal([]byte(`{"volume":"3","unit":"Gal","applicationId":"pond","concentrateMode":"1:10"}`), &in))

	req, err := in.Request()
	require.NoError(t, err)
	assert.Equal(t, dilution.DoseRequest{Volume: 3, Unit: dilution.Gallon, ApplicationID: "pond", Mode: dilution.RitualSolutionOneToTen}, req)
}

func TestDoseInput_Defaults(t *testing.T) {
	req, err := DoseInput{Volume: 2}.Request()
	require.NoError(t, err)
	assert.Equal(t, dilution.Liter, req.Unit)
	assert.Equal(t, dilution.UndilutedStock, req.Mode)
}

func TestDoseInput_RejectsUnknownEnums(t *testing.T) {
	_, err := DoseInput{Volume: 1, Unit: "barrel"}.Request()
	assert.Error(t, err)

	_, err = DoseInput{Volume: 1, ConcentrateMode: "1:5"}.Request()
	assert.Error(t, err)
}
