package activity

import (
	"encoding/json"
	"fmt"

	dbtypes "github.com/ZameerHP/clipscript/pkg/db/types"
	"github.com/ZameerHP/clipscript/pkg/enums"
	"github.com/shopspring/decimal"
)

// Metadata is the structured payload attached to an activity entry. Each
// action kind has exactly one payload type; LOGOUT carries none.
type Metadata interface {
	Action() enums.ActivityAction
}

// PurchaseMetadata describes a completed credit purchase.
type PurchaseMetadata struct {
	ExternalRef string          `json:"externalRef"`
	Price       decimal.Decimal `json:"price"`
	Credits     int64           `json:"credits"`
	Package     string          `json:"package"`
}

func (PurchaseMetadata) Action() enums.ActivityAction { return enums.ActivityActionPurchase }

// GenerateMetadata points at the saved content record.
type GenerateMetadata struct {
	RecordID string `json:"recordId"`
}

func (GenerateMetadata) Action() enums.ActivityAction { return enums.ActivityActionGenerate }

type LoginMetadata struct {
	Provider enums.AuthProvider `json:"provider"`
	Created  bool               `json:"created,omitempty"`
}

func (LoginMetadata) Action() enums.ActivityAction { return enums.ActivityActionLogin }

type SpeechMetadata struct {
	Voice      string `json:"voice"`
	Characters int    `json:"characters"`
	AudioBytes int    `json:"audioBytes"`
}

func (SpeechMetadata) Action() enums.ActivityAction { return enums.ActivityActionTTS }

// ProfileMetadata lists the profile fields a change touched.
type ProfileMetadata struct {
	Fields []string `json:"fields"`
}

func (ProfileMetadata) Action() enums.ActivityAction { return enums.ActivityActionUpdateProfile }

func encodeMetadata(action enums.ActivityAction, meta Metadata) (dbtypes.RawJSON, error) {
	if meta == nil {
		return nil, nil
	}
	if meta.Action() != action {
		return nil, fmt.Errorf("metadata for %s attached to %s entry", meta.Action(), action)
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encode %s metadata: %w", action, err)
	}
	return dbtypes.RawJSON(raw), nil
}

// decodeMetadata turns a stored payload back into the variant for action.
func decodeMetadata(action enums.ActivityAction, raw dbtypes.RawJSON) (Metadata, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var (
		meta Metadata
		err  error
	)
	switch action {
	case enums.ActivityActionPurchase:
		var m PurchaseMetadata
		err = json.Unmarshal(raw, &m)
		meta = m
	case enums.ActivityActionGenerate:
		var m GenerateMetadata
		err = json.Unmarshal(raw, &m)
		meta = m
	case enums.ActivityActionLogin:
		var m LoginMetadata
		err = json.Unmarshal(raw, &m)
		meta = m
	case enums.ActivityActionTTS:
		var m SpeechMetadata
		err = json.Unmarshal(raw, &m)
		meta = m
	case enums.ActivityActionUpdateProfile:
		var m ProfileMetadata
		err = json.Unmarshal(raw, &m)
		meta = m
	default:
		return nil, fmt.Errorf("%s entries carry no metadata", action)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", action, err)
	}
	return meta, nil
}
