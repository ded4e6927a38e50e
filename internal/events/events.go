// Package events decodes inbound pipeline notifications into typed domain
// events. Decoding fails closed: an unrecognized stage or a payload missing a
// required field is rejected, never defaulted.
package events

import (
	"encoding/json"
	"fmt"

	"github.com/LesnyRumcajs/pdp-hackathon/internal/common"
)

// Stages accepted on the event channel.
const (
	stageUploaded   = "UPLOADED"
	stageRootsAdded = "ROOTS_ADDED"
)

// Event is an inbound notification from the upload pipeline.
type Event interface {
	// FileIdentifier returns the opaque key of the file the event refers to.
	FileIdentifier() string
}

// Uploaded signals that a file has been handed to the storage provider.
type Uploaded struct {
	FileID      string
	DisplayName string
}

func (e Uploaded) FileIdentifier() string { return e.FileID }

// RootsAdded signals that the file's data roots were included in a proof set.
type RootsAdded struct {
	FileID      string
	DisplayName string
	ProofSetID  string
}

func (e RootsAdded) FileIdentifier() string { return e.FileID }

type payload struct {
	Stage string `json:"stage"`
	Data  struct {
		File       string `json:"file"`
		FileID     string `json:"file_id"`
		ProofSetID string `json:"proofset_id"`
	} `json:"data"`
}

// Decode parses one raw message into an Event. Errors wrap common.ErrDecode.
func Decode(raw []byte) (Event, error) {
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecode, err)
	}

	switch p.Stage {
	case stageUploaded:
		if p.Data.File == "" || p.Data.FileID == "" {
			return nil, fmt.Errorf("%w: %s payload missing file or file_id", common.ErrDecode, stageUploaded)
		}
		return Uploaded{FileID: p.Data.FileID, DisplayName: p.Data.File}, nil
	case stageRootsAdded:
		if p.Data.File == "" || p.Data.FileID == "" || p.Data.ProofSetID == "" {
			return nil, fmt.Errorf("%w: %s payload missing file, file_id or proofset_id", common.ErrDecode, stageRootsAdded)
		}
		return RootsAdded{FileID: p.Data.FileID, DisplayName: p.Data.File, ProofSetID: p.Data.ProofSetID}, nil
	default:
		return nil, fmt.Errorf("%w: unknown stage %q", common.ErrDecode, p.Stage)
	}
}
