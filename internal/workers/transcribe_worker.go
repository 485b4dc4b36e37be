package workers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Vijayaa21/blabber/internal/providers/stt"
	"github.com/Vijayaa21/blabber/internal/services"
)

// TranscribeWorkerPool drains the live-capture audio stream: each message
// is one audio chunk from a websocket client. The chunk is transcribed,
// the resulting segments are buffered on the session, and segment events
// are published back over the session channels for the websocket to relay.
type TranscribeWorkerPool struct {
	Redis      *redis.Client
	Live       services.LiveService
	STT        stt.Provider
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *TranscribeWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Live == nil || p.STT == nil {
		return errors.New("TranscribeWorkerPool missing dependency: Redis/Live/STT must be set")
	}
	if p.Stream == "" {
		p.Stream = "transcribe:stream"
	}
	if p.Group == "" {
		p.Group = "transcribe-workers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 5
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *TranscribeWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func EventChannel(sessionID string) string  { return "live:" + sessionID + ":events" }
func StatusChannel(sessionID string) string { return "live:" + sessionID + ":status" }

func (p *TranscribeWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	sessionID := getStr("session_id")
	chunkIndexStr := getStr("chunk_index")
	if sessionID == "" || chunkIndexStr == "" {
		return
	}
	chunkIndex, _ := strconv.ParseInt(chunkIndexStr, 10, 64)
	offsetSeconds, _ := strconv.ParseFloat(getStr("offset_seconds"), 64)

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":    msg.ID,
		"session_id":  sessionID,
		"chunk_index": chunkIndex,
	})

	eventCh := EventChannel(sessionID)
	statusCh := StatusChannel(sessionID)

	fail := func(message string) {
		_ = p.Redis.Publish(ctx, statusCh,
			`{"type":"status","status":"failed","message":"`+message+`","chunk_index":`+strconv.FormatInt(chunkIndex, 10)+`}`).Err()
	}

	// Fetch audio
	var audioBytes []byte
	if b64 := getStr("audio_base64"); b64 != "" {
		raw := b64
		if i := strings.Index(raw, ","); i >= 0 {
			raw = raw[i+1:] // strip data:...;base64,
		}
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			log.WithError(err).Warn("base64 decode failed")
			fail("invalid audio_base64")
			return
		}
		audioBytes = decoded
	} else if url := getStr("audio_url"); url != "" {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			log.WithError(err).Warn("audio_url fetch failed")
			fail("failed to fetch audio_url")
			return
		}
		defer resp.Body.Close()

		const maxBytes = 10 << 20
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
		if len(body) == 0 {
			fail("empty audio")
			return
		}
		audioBytes = body
	} else {
		return
	}

	_ = p.Redis.Publish(ctx, statusCh,
		`{"type":"status","status":"processing","message":"transcribing","chunk_index":`+strconv.FormatInt(chunkIndex, 10)+`}`).Err()

	segments, err := p.STT.TranscribeSegments(ctx, audioBytes, stt.Options{
		Language:        getStr("language"),
		ReviewThreshold: stt.LiveReviewThreshold,
	})
	if err != nil {
		log.WithError(err).Error("transcription failed")
		fail("transcription failed")
		return
	}

	// Segment times from the provider are chunk-relative; shift them onto
	// the session timeline before buffering.
	for i := range segments {
		segments[i].StartTime += offsetSeconds
		segments[i].EndTime += offsetSeconds

		seq := chunkIndex*1000 + int64(i) + 1
		if err := p.Live.AppendSegment(ctx, sessionID, seq, segments[i]); err != nil {
			log.WithError(err).Error("failed to buffer segment")
			fail("failed to buffer segment")
			return
		}

		payload, _ := json.Marshal(map[string]any{
			"type":        "segment",
			"chunk_index": chunkIndex,
			"segment":     segments[i],
		})
		_ = p.Redis.Publish(ctx, eventCh, string(payload)).Err()
	}

	_ = p.Redis.Publish(ctx, statusCh,
		`{"type":"status","status":"done","message":"chunk processed","chunk_index":`+strconv.FormatInt(chunkIndex, 10)+`}`).Err()
}
