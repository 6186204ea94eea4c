package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abdalla-ayman/tailor-frontend/internal/models"
)

func TestMeasurementFields(t *testing.T) {
	assert.Equal(t, []string{"pantsLength", "pantsWidth", "notes"}, models.GarmentPants.MeasurementFields())

	jalabya := models.GarmentJalabya.MeasurementFields()
	assert.Len(t, jalabya, 8)
	assert.Contains(t, jalabya, "shouldersWidth")
	assert.NotContains(t, jalabya, "pantsLength")

	// alalla carries the full superset
	alalla := models.GarmentAlalla.MeasurementFields()
	assert.Len(t, alalla, 10)
	assert.Contains(t, alalla, "pantsLength")
	assert.Contains(t, alalla, "sleeveLength")

	assert.Equal(t, models.GarmentJalabya.MeasurementFields(), models.GarmentAragi.MeasurementFields())
}

func TestGarmentKindValid(t *testing.T) {
	for _, k := range models.GarmentKinds {
		assert.True(t, k.Valid())
	}
	assert.False(t, models.GarmentKind("suit").Valid())
	assert.False(t, models.GarmentKind("").Valid())
}

func TestMeasurementSetPopulated(t *testing.T) {
	set := models.NewMeasurementSet()
	assert.Len(t, set, 4)
	for _, k := range models.GarmentKinds {
		assert.False(t, set.Populated(k))
	}

	set[models.GarmentPants]["pantsLength"] = "102.5"
	assert.True(t, set.Populated(models.GarmentPants))
	assert.False(t, set.Populated(models.GarmentJalabya))

	// empty values do not count as populated
	set[models.GarmentJalabya]["length"] = ""
	assert.False(t, set.Populated(models.GarmentJalabya))

	// a kind missing from the set entirely is not populated
	delete(set, models.GarmentAragi)
	assert.False(t, set.Populated(models.GarmentAragi))
}

func TestHasField(t *testing.T) {
	assert.True(t, models.GarmentPants.HasField("pantsWidth"))
	assert.False(t, models.GarmentPants.HasField("sleeveLength"))
	assert.True(t, models.GarmentAlalla.HasField("sleeveLength"))
}

func TestCustomerDraftToSubmission(t *testing.T) {
	draft := models.NewCustomerDraft()
	draft.Name = "Ahmed"
	draft.Phone = "0912345678, 0998765432,,"
	draft.Residence = "Omdurman"

	payload := draft.ToSubmission()
	assert.Equal(t, []string{"0912345678", "0998765432"}, payload.Phone)
	assert.Equal(t, "Ahmed", payload.Name)
	assert.Len(t, payload.Measurements, 4)
}

func TestPhoneDisplay(t *testing.T) {
	c := models.Customer{Phone: []string{"0912345678", "0998765432"}}
	assert.Equal(t, "0912345678,0998765432", c.PhoneDisplay())
}
