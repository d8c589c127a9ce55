package proto

// FeatureFlag is a protocol revision threshold gating an optional wire
// field. A feature is present once the negotiated revision is greater
// than or equal to the flag's value.
type FeatureFlag int

// In reports whether revision supports this feature.
func (f FeatureFlag) In(revision int) bool {
	return revision >= int(f)
}

// Feature flags, mirroring ClickHouse's DBMS_MIN_PROTOCOL_VERSION_WITH_*
// constants. Values match the upstream server protocol.
const (
	FeatureTempTables           FeatureFlag = 1
	FeatureClientInfo           FeatureFlag = 54032
	FeatureServerTimezone       FeatureFlag = 54058
	FeatureQuotaKeyInClientInfo FeatureFlag = 54060
	FeatureDisplayName          FeatureFlag = 54372
	FeatureVersionPatch         FeatureFlag = 54401
	FeatureServerLogs           FeatureFlag = 54406
	FeatureClientWriteInfo      FeatureFlag = 54420
	FeatureSettingsSerializedAsStrings FeatureFlag = 54429
	FeatureInterserverSecret    FeatureFlag = 54441
	FeatureOpenTelemetry        FeatureFlag = 54442
	FeatureTotalRowsInProgress  FeatureFlag = 54451
	FeatureSparseSerialization  FeatureFlag = 54452
	FeatureCustomSerialization  FeatureFlag = 54454
	FeatureQuotaKey             FeatureFlag = 54458
	FeatureParameters           FeatureFlag = 54459
	FeatureAddendum             FeatureFlag = 54458
	FeatureQueryStartTime       FeatureFlag = 54460
	FeatureProfileEventsInProgress FeatureFlag = 54451
	// FeatureJSONType is the revision associated with the experimental
	// JSON column type. Nothing in this package checks it: JSON columns
	// are built, decoded and skipped at any revision.
	FeatureJSONType FeatureFlag = 54468
)
