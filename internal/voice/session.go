package voice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// InputSampleRate is the rate of microphone audio sent to the assistant
	InputSampleRate = 16000
	// OutputSampleRate is the rate of the assistant's speech
	OutputSampleRate = 24000

	DefaultEndpoint = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"
	DefaultModel    = "gemini-2.5-flash-native-audio-preview-12-2025"
	DefaultVoice    = "Puck"

	eventBuffer = 64
)

// ErrNoAPIKey is returned when no key is configured for the live endpoint
var ErrNoAPIKey = errors.New("voice api key is not set")

// Config describes the live endpoint
type Config struct {
	Endpoint         string        `json:"endpoint"`
	APIKey           string        `json:"api_key"`
	Model            string        `json:"model"`
	Voice            string        `json:"voice"`
	HandshakeTimeout time.Duration `json:"-"`
}

// WithDefaults fills the unset fields, reading the key from GEMINI_API_KEY
func (c Config) WithDefaults() Config {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Voice == "" {
		c.Voice = DefaultVoice
	}
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = 10 * time.Second
	}
	return c
}

// EventKind identifies what the assistant sent
type EventKind string

const (
	EventAudio       EventKind = "audio"
	EventInterrupted EventKind = "interrupted"
	EventClosed      EventKind = "closed"
)

// Event is one message from the assistant. Audio carries 24 kHz PCM16.
type Event struct {
	Kind  EventKind
	Audio []byte
	Err   error
}

// Session is a live audio conversation
type Session struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	events  chan Event

	closeOnce sync.Once
	done      chan struct{}
}

type setupMessage struct {
	Setup setup `json:"setup"`
}

type setup struct {
	Model             string           `json:"model"`
	GenerationConfig  generationConfig `json:"generationConfig"`
	SystemInstruction content          `json:"systemInstruction"`
}

type generationConfig struct {
	ResponseModalities []string     `json:"responseModalities"`
	SpeechConfig       speechConfig `json:"speechConfig"`
}

type speechConfig struct {
	VoiceConfig struct {
		PrebuiltVoiceConfig struct {
			VoiceName string `json:"voiceName"`
		} `json:"prebuiltVoiceConfig"`
	} `json:"voiceConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

type realtimeInputMessage struct {
	RealtimeInput struct {
		MediaChunks []inlineData `json:"mediaChunks"`
	} `json:"realtimeInput"`
}

type serverMessage struct {
	SetupComplete *struct{} `json:"setupComplete,omitempty"`
	ServerContent *struct {
		ModelTurn    *content `json:"modelTurn,omitempty"`
		Interrupted  bool     `json:"interrupted,omitempty"`
		TurnComplete bool     `json:"turnComplete,omitempty"`
	} `json:"serverContent,omitempty"`
}

// Dial opens a session and waits for the endpoint to accept the setup.
// instruction grounds the assistant, typically with the inventory names.
func Dial(ctx context.Context, cfg Config, instruction string) (*Session, error) {
	cfg = cfg.WithDefaults()
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	endpoint, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid voice endpoint: %w", err)
	}
	query := endpoint.Query()
	query.Set("key", cfg.APIKey)
	endpoint.RawQuery = query.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect voice session: %w", err)
	}

	msg := setupMessage{Setup: setup{
		Model: "models/" + cfg.Model,
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"AUDIO"},
		},
		SystemInstruction: content{Parts: []part{{Text: instruction}}},
	}}
	msg.Setup.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName = cfg.Voice

	if err := conn.WriteJSON(msg); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to send voice setup: %w", err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(deadline)
	} else {
		conn.SetReadDeadline(time.Now().Add(cfg.HandshakeTimeout))
	}
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("voice setup failed: %w", err)
		}
		var reply serverMessage
		if err := json.Unmarshal(data, &reply); err == nil && reply.SetupComplete != nil {
			break
		}
	}
	conn.SetReadDeadline(time.Time{})

	s := &Session{
		conn:   conn,
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
	}
	go s.readLoop()
	return s, nil
}

// Events delivers the assistant's messages. The channel is closed after the
// closed event.
func (s *Session) Events() <-chan Event {
	return s.events
}

// SendAudio streams one chunk of 16 kHz PCM16 microphone audio
func (s *Session) SendAudio(pcm []byte) error {
	if len(pcm) == 0 {
		return nil
	}
	var msg realtimeInputMessage
	msg.RealtimeInput.MediaChunks = []inlineData{{
		MimeType: fmt.Sprintf("audio/pcm;rate=%d", InputSampleRate),
		Data:     pcm,
	}}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	select {
	case <-s.done:
		return websocket.ErrCloseSent
	default:
	}
	return s.conn.WriteJSON(msg)
}

// Close ends the session
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		s.writeMu.Lock()
		s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.writeMu.Unlock()
		err = s.conn.Close()
	})
	return err
}

func (s *Session) readLoop() {
	defer close(s.events)

	var closeErr error
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				select {
				case <-s.done:
				default:
					closeErr = err
					log.Printf("Voice session error: %v", err)
				}
			}
			break
		}

		var msg serverMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Ignoring voice message: %v", err)
			continue
		}
		if msg.ServerContent == nil {
			continue
		}
		if turn := msg.ServerContent.ModelTurn; turn != nil {
			for _, p := range turn.Parts {
				if p.InlineData != nil && len(p.InlineData.Data) > 0 {
					s.emit(Event{Kind: EventAudio, Audio: p.InlineData.Data})
				}
			}
		}
		if msg.ServerContent.Interrupted {
			s.emit(Event{Kind: EventInterrupted})
		}
	}

	s.emit(Event{Kind: EventClosed, Err: closeErr})
	s.Close()
}

func (s *Session) emit(ev Event) {
	if ev.Kind == EventClosed {
		// the channel close that follows carries the same news
		select {
		case s.events <- ev:
		default:
		}
		return
	}
	select {
	case s.events <- ev:
	case <-s.done:
	}
}
