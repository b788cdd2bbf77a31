package sensor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"agrobox/internal/logger"
	"agrobox/internal/models"

	serial "github.com/tarm/goserial"
)

const (
	defaultBaud = 9600
	closeWait   = time.Second
)

// ErrNoSample means no new line arrived since the previous Read.
var ErrNoSample = errors.New("no new sensor sample")

// LineSource reads CSV lines from a stream in the background and hands out
// the newest parsed sample.
type LineSource struct {
	rc  io.ReadCloser
	log *logger.Logger

	mu     sync.Mutex
	latest models.SensorSample
	fresh  bool
	err    error

	done chan struct{}
}

// OpenSerial opens the rig controller's serial port.
func OpenSerial(device string, baud int, log *logger.Logger) (*LineSource, error) {
	if baud <= 0 {
		baud = defaultBaud
	}
	port, err := serial.OpenPort(&serial.Config{Name: device, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", device, err)
	}
	return NewLineSource(port, log), nil
}

func NewLineSource(rc io.ReadCloser, log *logger.Logger) *LineSource {
	if log == nil {
		log = logger.Nop()
	}
	s := &LineSource{rc: rc, log: log, done: make(chan struct{})}
	go s.scan()
	return s
}

func (s *LineSource) scan() {
	defer close(s.done)
	sc := bufio.NewScanner(s.rc)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		sample, err := ParseLine(line)
		if err != nil {
			s.log.Warnw("sensor_line_rejected", "err", err)
			continue
		}
		s.mu.Lock()
		s.latest, s.fresh = sample, true
		s.mu.Unlock()
	}

	err := sc.Err()
	if err == nil {
		err = io.EOF
	}
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	s.log.Warnw("sensor_stream_closed", "err", err)
}

// Read returns the newest sample not yet handed out. It fails with
// ErrNoSample when nothing new arrived and with the stream error once the
// stream is gone.
func (s *LineSource) Read(ctx context.Context) (models.SensorSample, error) {
	if err := ctx.Err(); err != nil {
		return models.SensorSample{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fresh {
		s.fresh = false
		return s.latest, nil
	}
	if s.err != nil {
		return models.SensorSample{}, s.err
	}
	return models.SensorSample{}, ErrNoSample
}

// Close closes the stream and waits briefly for the reader to stop. Some
// serial drivers do not unblock a pending read on close.
func (s *LineSource) Close() error {
	err := s.rc.Close()
	select {
	case <-s.done:
	case <-time.After(closeWait):
	}
	return err
}
