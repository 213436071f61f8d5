package domain

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorType(t *testing.T) {
	req := require.New(t)
	req.Equal(ErrTypeRoomFull, ErrorType(fmt.Errorf("room r1: %w", ErrRoomFull)))
	req.Equal(ErrTypeNegotiation, ErrorType(fmt.Errorf("connect: %w", ErrNegotiation)))
	req.Equal(ErrTypeInternal, ErrorType(fmt.Errorf("boom")))
	req.Equal(ErrTypeInternal, ErrorType(nil))
}

func TestSameCodec(t *testing.T) {
	opus := RTPCodecCapability{Kind: KindAudio, MimeType: "audio/opus", ClockRate: 48000, Channels: 2}

	t.Run("should match case-insensitively", func(t *testing.T) {
		require.True(t, SameCodec("audio/OPUS", 48000, 2, opus))
	})
	t.Run("should treat zero channels as a wildcard", func(t *testing.T) {
		require.True(t, SameCodec("audio/opus", 48000, 0, opus))
	})
	t.Run("should reject a different clock rate", func(t *testing.T) {
		require.False(t, SameCodec("audio/opus", 16000, 2, opus))
	})
	t.Run("should reject a different channel count", func(t *testing.T) {
		require.False(t, SameCodec("audio/opus", 48000, 1, opus))
	})
}

func TestKindOfMime(t *testing.T) {
	require.Equal(t, KindVideo, KindOfMime("Video/VP8"))
	require.False(t, KindOfMime("application/data").Valid())
}

func TestParseSessionID(t *testing.T) {
	req := require.New(t)

	id := NewSessionID()
	got, err := ParseSessionID(string(id))
	req.NoError(err)
	req.Equal(id, got)

	_, err = ParseSessionID("")
	req.ErrorIs(err, ErrSessionIDEmpty)

	_, err = ParseSessionID(strings.Repeat("a", MaxSessionIDLen+1))
	req.ErrorIs(err, ErrBadPayload)
}

func TestRoleFor(t *testing.T) {
	require.Equal(t, RoleProducing, RoleFor(true))
	require.Equal(t, RoleConsuming, RoleFor(false))
	require.False(t, Role("both").Valid())
}

func TestDTLSParameters_Validate(t *testing.T) {
	require.ErrorIs(t, DTLSParameters{}.Validate(), ErrNegotiation)
	require.NoError(t, DTLSParameters{Fingerprints: []DTLSFingerprint{{Algorithm: "sha-256", Value: "AB:CD"}}}.Validate())
}
