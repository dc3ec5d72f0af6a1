package remote

import (
	"errors"
	"fmt"

	"gallery-engine/internal/assemble"
	"gallery-engine/internal/mathutil"
	"gallery-engine/internal/navigation"
	"gallery-engine/internal/session"
)

// Client message types.
const (
	TypeActivate       = "activate"
	TypeDeactivate     = "deactivate"
	TypeCaptureChanged = "captureChanged"
	TypeCaptureError   = "captureError"
	TypeKeyDown        = "keyDown"
	TypeKeyUp          = "keyUp"
	TypeLook           = "look"
	TypeSelect         = "select"
	TypeClose          = "close"
	TypeResume         = "resume"
	TypeExit           = "exit"
	TypeLike           = "like"
)

// Server message types.
const (
	TypeWelcome        = "welcome"
	TypeFrame          = "frame"
	TypeRequestCapture = "requestCapture"
	TypeReleaseCapture = "releaseCapture"
	TypeError          = "error"
)

type clientMessage struct {
	Type      string         `json:"type"`
	Captured  bool           `json:"captured"`
	Error     string         `json:"error"`
	Code      string         `json:"code"`
	DX        float64        `json:"dx"`
	DY        float64        `json:"dy"`
	ArtworkID string         `json:"artworkId"`
	Target    *mathutil.Vec3 `json:"target,omitempty"`
}

var errMissingArtwork = errors.New("missing artworkId")

// event converts a client message into a session event.
func (m clientMessage) event() (session.Event, error) {
	switch m.Type {
	case TypeActivate:
		return session.Activate{}, nil
	case TypeDeactivate:
		return session.Deactivate{}, nil
	case TypeCaptureChanged:
		return navigation.CaptureChanged{Captured: m.Captured}, nil
	case TypeCaptureError:
		msg := m.Error
		if msg == "" {
			msg = "pointer capture failed"
		}
		return navigation.CaptureError{Err: errors.New(msg)}, nil
	case TypeKeyDown:
		return navigation.KeyDown{Code: m.Code}, nil
	case TypeKeyUp:
		return navigation.KeyUp{Code: m.Code}, nil
	case TypeLook:
		return navigation.Look{DX: m.DX, DY: m.DY}, nil
	case TypeSelect:
		if m.ArtworkID == "" && m.Target == nil {
			return nil, errMissingArtwork
		}
		return session.Select{ArtworkID: m.ArtworkID, Target: m.Target}, nil
	case TypeClose:
		return session.CloseArtwork{}, nil
	case TypeResume:
		return session.Resume{}, nil
	case TypeExit:
		return session.Exit{}, nil
	case TypeLike:
		if m.ArtworkID == "" {
			return nil, errMissingArtwork
		}
		return session.Like{ArtworkID: m.ArtworkID}, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", m.Type)
	}
}

type welcomeMessage struct {
	Type    string          `json:"type"`
	Gallery assemble.Config `json:"gallery"`
}

type frameMessage struct {
	Type  string           `json:"type"`
	Seq   uint64           `json:"seq"`
	Frame session.Snapshot `json:"frame"`
}

type signalMessage struct {
	Type   string `json:"type"`
	Reason string `json:"reason,omitempty"`
}
