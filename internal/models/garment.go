package models

// GarmentKind identifies one of the shop's garment cuts. The set is closed;
// every kind carries its own measurement field schema.
type GarmentKind string

const (
	GarmentJalabya GarmentKind = "jalabya"
	GarmentAragi   GarmentKind = "aragi"
	GarmentPants   GarmentKind = "pants"
	GarmentAlalla  GarmentKind = "alalla"
)

// GarmentKinds lists all kinds in display order.
var GarmentKinds = []GarmentKind{GarmentJalabya, GarmentAragi, GarmentPants, GarmentAlalla}

func (k GarmentKind) Valid() bool {
	switch k {
	case GarmentJalabya, GarmentAragi, GarmentPants, GarmentAlalla:
		return true
	}
	return false
}

// Field names shared across kinds.
const (
	FieldLength           = "length"
	FieldShouldersWidth   = "shouldersWidth"
	FieldUpperSleeveWidth = "upperSleeveWidth"
	FieldLowerSleeveWidth = "lowerSleeveWidth"
	FieldSleeveLength     = "sleeveLength"
	FieldUpperSides       = "upperSides"
	FieldLowerSides       = "lowerSides"
	FieldPantsLength      = "pantsLength"
	FieldPantsWidth       = "pantsWidth"
	FieldNotes            = "notes"
)

var upperBodyFields = []string{
	FieldLength,
	FieldShouldersWidth,
	FieldUpperSleeveWidth,
	FieldLowerSleeveWidth,
	FieldSleeveLength,
	FieldUpperSides,
	FieldLowerSides,
}

// MeasurementFields returns the measurement schema for a kind, notes last.
// Pants only carry pants fields; alalla carries the full superset.
func (k GarmentKind) MeasurementFields() []string {
	switch k {
	case GarmentJalabya, GarmentAragi:
		return append(append([]string{}, upperBodyFields...), FieldNotes)
	case GarmentPants:
		return []string{FieldPantsLength, FieldPantsWidth, FieldNotes}
	case GarmentAlalla:
		fields := append([]string{}, upperBodyFields...)
		return append(fields, FieldPantsLength, FieldPantsWidth, FieldNotes)
	}
	return nil
}

// HasField reports whether field belongs to the kind's schema.
func (k GarmentKind) HasField(field string) bool {
	for _, f := range k.MeasurementFields() {
		if f == field {
			return true
		}
	}
	return false
}

// Measurements holds the stored values for one garment kind, keyed by field
// name. Values are numeric strings or empty; notes is free text.
type Measurements map[string]string

// Populated reports whether at least one field holds a value.
func (m Measurements) Populated() bool {
	for _, v := range m {
		if v != "" {
			return true
		}
	}
	return false
}

// MeasurementSet maps every garment kind to its stored measurements.
type MeasurementSet map[GarmentKind]Measurements

// NewMeasurementSet returns a set with an empty entry per kind, the shape new
// customer records start from.
func NewMeasurementSet() MeasurementSet {
	set := make(MeasurementSet, len(GarmentKinds))
	for _, k := range GarmentKinds {
		set[k] = Measurements{}
	}
	return set
}

// Populated reports whether the set can back a line item of the given kind.
func (s MeasurementSet) Populated(kind GarmentKind) bool {
	m, ok := s[kind]
	return ok && m.Populated()
}
