package models

import (
	"time"
)

// Markers used in timed logs. They share the identifier namespace with
// attribute ids, which is why log entries carry string ids.
const (
	MarkerStart = "START"
	MarkerEnd   = "END"
)

// Triangle sensory channels.
const (
	ChannelAroma = "aroma"
	ChannelTaste = "taste"
)

// TriangleResponse is the structured disambiguation captured after the
// judge picks the odd sample.
type TriangleResponse struct {
	SensoryCategoryType string `json:"sensoryCategoryType,omitempty"`
	Description         string `json:"description,omitempty"`
	Intensity           int    `json:"intensity,omitempty"`
	IsForcedResponse    bool   `json:"isForcedResponse"`
}

// TimedEvent is one entry of a temporal-dominance log: which attribute
// became dominant at which elapsed second. ID is either an attribute id or
// one of the START/END markers.
type TimedEvent struct {
	At float64 `json:"t"`
	ID string  `json:"id"`
}

// IntensitySample is one entry of a time-intensity log, tagged with the
// attribute being tracked when the sample was taken.
type IntensitySample struct {
	At          float64 `json:"t"`
	Value       float64 `json:"value"`
	AttributeID string  `json:"attributeId"`
}

// Point is a normalized napping-map coordinate, both axes in [0,100].
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Result is the single immutable record a judge run emits. Exactly the
// fields relevant to the test's method are populated; the rest stay nil and
// are omitted from JSON and stored as SQL NULL.
type Result struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	TestID      uint      `gorm:"index" json:"testId"`
	JudgeName   string    `json:"judgeName"`
	SubmittedAt time.Time `json:"submittedAt"`

	// Ratings maps "sampleCode_attributeId" composite keys to numeric
	// ratings (QDA, Hedonic, Flash Profile, RATA intensity).
	Ratings map[string]float64 `gorm:"type:jsonb;serializer:json" json:"ratings,omitempty"`

	// Selections holds the composite keys a judge checked (CATA).
	Selections []string `gorm:"type:jsonb;serializer:json" json:"selections,omitempty"`

	TriangleSelection *string           `json:"triangleSelection,omitempty"`
	TriangleResponse  *TriangleResponse `gorm:"type:jsonb;serializer:json" json:"triangleResponse,omitempty"`

	PairedSelection *string `json:"pairedSelection,omitempty"`

	// Groups maps sample code to the judge's free-form group label (Sorting).
	Groups map[string]string `gorm:"type:jsonb;serializer:json" json:"groups,omitempty"`

	// Coordinates maps sample code to a normalized map position (Napping).
	Coordinates map[string]Point `gorm:"type:jsonb;serializer:json" json:"coordinates,omitempty"`

	// DominanceLogs maps sample code to its ordered TDS event log.
	DominanceLogs map[string][]TimedEvent `gorm:"type:jsonb;serializer:json" json:"dominanceLogs,omitempty"`

	// IntensityLogs maps sample code to its ordered time-intensity log.
	IntensityLogs map[string][]IntensitySample `gorm:"type:jsonb;serializer:json" json:"intensityLogs,omitempty"`
}

// ResultEvent is a normalized row mirroring one timed-log entry. Rows are
// written alongside the result in the same transaction so temporal curves
// can be aggregated in SQL without unpacking jsonb.
type ResultEvent struct {
	ID          int     `gorm:"primaryKey" json:"-"`
	ResultID    string  `gorm:"index;type:uuid" json:"-"`
	SampleCode  string  `json:"sampleCode"`
	Kind        string  `json:"kind"` // 'dominance' or 'intensity'
	AttributeID string  `json:"attributeId"`
	Value       float64 `json:"value"`
	AtSeconds   float64 `json:"atSeconds"`
}

// FlashAttribute is one word of a judge-built Flash Profile vocabulary. The
// vocabulary is the only state that outlives a session; it is keyed by test
// and shared by every judge running that test.
type FlashAttribute struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TestID    uint      `gorm:"index:idx_flash_test_label,unique" json:"testId"`
	Label     string    `gorm:"index:idx_flash_test_label,unique" json:"label"`
	CreatedAt time.Time `json:"createdAt"`
}
