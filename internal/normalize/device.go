package normalize

import (
	"encoding/json"
	"strings"

	"booking-admin-backend/internal/model"
)

// UnclassifiedType is substituted when no device type mapping can be found,
// so a device is never silently dropped from a listing.
const UnclassifiedType = "Unclassified"

// deviceTypeDisplay maps the backend's raw enum codes to display names.
// Codes not present here pass through verbatim so a new backend value shows
// up as-is instead of breaking the list.
var deviceTypeDisplay = map[string]string{
	"MAY_CHIEU":  "Projector",
	"TIVI":       "TV Screen",
	"BANG_TRANG": "Whiteboard",
	"LOA":        "Speaker",
	"MICRO":      "Microphone",
	"MAY_LANH":   "Air Conditioner",
	"KHAC":       "Other",
}

// RawDevice is the device payload as the backend actually sends it. The id
// arrives under one of three field names depending on the endpoint, and
// deviceType may be an enum code, a display string, or a nested object, so
// it is held as raw JSON and dissected in NormalizeDevice.
type RawDevice struct {
	DeviceID     *int64          `json:"deviceId"`
	ID           *int64          `json:"id"`
	LegacyID     *int64          `json:"device_id"`
	Name         string          `json:"name"`
	DeviceType   json.RawMessage `json:"deviceType"`
	DeviceTypeID *int64          `json:"deviceTypeId"`
	Quantity     int             `json:"quantity"`
	Description  string          `json:"description"`
	CreatedAt    string          `json:"createdAt"`
}

// NormalizeDevice converts a raw backend device payload into the canonical
// shape. The second return value is false when the record should be skipped
// (nil payload, or no usable id under any of the known field names). It
// never panics on malformed input; unknown type representations degrade to
// best-effort strings and ultimately to UnclassifiedType.
func NormalizeDevice(raw *RawDevice, knownTypes []model.DeviceType) (model.Device, bool) {
	if raw == nil {
		return model.Device{}, false
	}

	var id int64
	switch {
	case raw.DeviceID != nil:
		id = *raw.DeviceID
	case raw.ID != nil:
		id = *raw.ID
	case raw.LegacyID != nil:
		id = *raw.LegacyID
	default:
		return model.Device{}, false
	}

	typeName := resolveTypeName(raw.DeviceType)
	if typeName == "" {
		typeName = UnclassifiedType
	}

	// Prefer the id of a known type matching the resolved name; fall back to
	// whatever id the backend supplied directly.
	typeID := raw.DeviceTypeID
	for i := range knownTypes {
		if strings.EqualFold(knownTypes[i].Name, typeName) {
			typeID = &knownTypes[i].ID
			break
		}
	}

	return model.Device{
		ID:             id,
		Name:           raw.Name,
		DeviceTypeID:   typeID,
		DeviceTypeName: typeName,
		Quantity:       raw.Quantity,
		Description:    raw.Description,
		CreatedAt:      raw.CreatedAt,
	}, true
}

// typeObject is the nested-object variant of the deviceType field.
type typeObject struct {
	DisplayName string `json:"displayName"`
	Name        string `json:"name"`
}

// resolveTypeName handles the three observed wire representations of
// deviceType: enum code string, nested object, or anything else (stringified
// as a last resort).
func resolveTypeName(rt json.RawMessage) string {
	trimmed := strings.TrimSpace(string(rt))
	if trimmed == "" || trimmed == "null" {
		return ""
	}

	var code string
	if err := json.Unmarshal(rt, &code); err == nil {
		code = strings.TrimSpace(code)
		if display, ok := deviceTypeDisplay[strings.ToUpper(code)]; ok {
			return display
		}
		return code
	}

	var obj typeObject
	if err := json.Unmarshal(rt, &obj); err == nil {
		if obj.DisplayName != "" {
			return obj.DisplayName
		}
		if obj.Name != "" {
			return obj.Name
		}
	}

	// Numbers, booleans, arrays: keep the literal so the record survives.
	return strings.Trim(trimmed, `"`)
}
