package server

import (
	"context"
	"encoding/base64"
	"log"
	"time"

	"github.com/franckalain/frigozen/internal/voice"
)

// voiceRelay forwards one live session to the client that opened it. Output
// chunks are scheduled on a clock that starts with the session, so the client
// can play them back to back.
type voiceRelay struct {
	session  *voice.Session
	playback *voice.Playback
	started  time.Time
}

type voiceAudio struct {
	Data     string  `json:"data"`     // base64 PCM16
	Rate     int     `json:"rate"`     // samples per second
	StartAt  float64 `json:"startAt"`  // seconds since the session opened
	Duration float64 `json:"duration"` // seconds
}

func (s *Server) handleVoiceStart(ctx context.Context, c *client) {
	c.stopVoice()

	session, err := s.app.StartVoice(ctx)
	if err != nil {
		log.Printf("Failed to start voice session: %v", err)
		s.sendError(c, "Failed to start voice session")
		return
	}
	relay := &voiceRelay{
		session:  session,
		playback: voice.NewPlayback(voice.OutputSampleRate),
		started:  time.Now(),
	}

	c.voiceMu.Lock()
	c.voice = relay
	c.voiceMu.Unlock()

	go s.relayVoice(c, relay)
}

func (s *Server) relayVoice(c *client, relay *voiceRelay) {
	for ev := range relay.session.Events() {
		switch ev.Kind {
		case voice.EventAudio:
			start, duration := relay.playback.Schedule(ev.Audio, time.Since(relay.started))
			s.send(c, "voice_audio", voiceAudio{
				Data:     base64.StdEncoding.EncodeToString(ev.Audio),
				Rate:     voice.OutputSampleRate,
				StartAt:  start.Seconds(),
				Duration: duration.Seconds(),
			})
		case voice.EventInterrupted:
			speaking := relay.playback.Speaking(time.Since(relay.started))
			dropped := relay.playback.Interrupt()
			if !speaking {
				continue
			}
			if s.debug {
				log.Printf("Voice interrupted, %d chunks dropped", dropped)
			}
			s.send(c, "voice_interrupted", nil)
		}
	}

	c.voiceMu.Lock()
	if c.voice == relay {
		c.voice = nil
	}
	c.voiceMu.Unlock()
	s.send(c, "voice_closed", nil)
}

func (s *Server) handleVoiceAudio(c *client, msg message) {
	var req struct {
		Data string `json:"data"`
	}
	if !s.decode(c, msg, &req) {
		return
	}
	pcm, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		s.sendError(c, "Invalid audio data")
		return
	}

	c.voiceMu.Lock()
	relay := c.voice
	c.voiceMu.Unlock()
	if relay == nil {
		s.sendError(c, "No voice session")
		return
	}
	if err := relay.session.SendAudio(pcm); err != nil {
		log.Printf("Error sending audio: %v", err)
	}
}

// stopVoice closes the client's voice session, if any
func (c *client) stopVoice() {
	c.voiceMu.Lock()
	relay := c.voice
	c.voice = nil
	c.voiceMu.Unlock()
	if relay != nil {
		relay.session.Close()
	}
}
