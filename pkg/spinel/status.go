package spinel

// Status is the Spinel status code, values 0..=24. ResetReason, below,
// shares the same LastStatus integer payload space at values
// 112..=120; callers decoding a LastStatus payload must range-test
// before choosing which to construct.
type Status uint8

const (
	StatusOk Status = iota
	StatusFailure
	StatusUnimplemented
	StatusInvalidArgument
	StatusInvalidState
	StatusInvalidCommand
	StatusInvalidInterface
	StatusInternalError
	StatusSecurityError
	StatusParseError
	StatusInProgress
	StatusNoMemory
	StatusBusy
	StatusPropertyNotFound
	StatusPacketDropped
	StatusEmpty
	StatusCommandTooBig
	StatusNoAck
	StatusCcaFailure
	StatusAlready
	StatusItemNotFound
	StatusInvalidCommandForProperty
	StatusUnknownNeighbor
	StatusNotCapable
	StatusResponseTimeout
)

func (s Status) String() string {
	names := [...]string{
		"Ok", "Failure", "Unimplemented", "InvalidArgument", "InvalidState",
		"InvalidCommand", "InvalidInterface", "InternalError", "SecurityError",
		"ParseError", "InProgress", "NoMemory", "Busy", "PropertyNotFound",
		"PacketDropped", "Empty", "CommandTooBig", "NoAck", "CcaFailure",
		"Already", "ItemNotFound", "InvalidCommandForProperty", "UnknownNeighbor",
		"NotCapable", "ResponseTimeout",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return "Unknown"
}

// StatusFromU8 converts a raw status byte, rejecting values outside
// 0..=24 (including the disjoint ResetReason range).
func StatusFromU8(v uint8) (Status, error) {
	if v > uint8(StatusResponseTimeout) {
		return 0, newErr(KindStatus, v)
	}
	return Status(v), nil
}

// ResetReason is the disjoint enumeration sharing LastStatus's integer
// space at values 112..=120.
type ResetReason uint32

const (
	ResetPowerOn ResetReason = iota + 112
	ResetExternal
	ResetSoftware
	ResetFault
	ResetCrash
	ResetAssert
	ResetOther
	ResetUnknown
	ResetWatchdog
)

func (r ResetReason) String() string {
	switch r {
	case ResetPowerOn:
		return "PowerOn"
	case ResetExternal:
		return "External"
	case ResetSoftware:
		return "Software"
	case ResetFault:
		return "Fault"
	case ResetCrash:
		return "Crash"
	case ResetAssert:
		return "Assert"
	case ResetOther:
		return "Other"
	case ResetUnknown:
		return "Unknown"
	case ResetWatchdog:
		return "Watchdog"
	default:
		return "Invalid"
	}
}

// IsResetReasonRange reports whether v falls in the ResetReason
// payload range (112..=120), as opposed to the Status range (0..=24).
func IsResetReasonRange(v uint32) bool {
	return v >= uint32(ResetPowerOn) && v <= uint32(ResetWatchdog)
}

// ResetReasonFromU32 converts a raw LastStatus payload value known to
// be in the ResetReason range.
func ResetReasonFromU32(v uint32) (ResetReason, error) {
	if !IsResetReasonRange(v) {
		return 0, newErr(KindStatus, v)
	}
	return ResetReason(v), nil
}
