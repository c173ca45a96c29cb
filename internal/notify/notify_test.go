package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMultiFansOut(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	n := Multi(a, nil, b)

	n.Notify(Notification{Kind: KindSuccess, Title: "Export", Text: "ok"})

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, "ok", b.All()[0].Text)
}

func TestNopAndNilFunc(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop.Notify(Notification{Text: "dropped"})
	})
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	n.Notify(Notification{Kind: KindInfo, Title: "Confiance", Text: "85%"})
	n.Notify(Notification{Kind: KindError, Title: "Export", Text: "failed"})

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zap.InfoLevel, entries[0].Level)
		assert.Equal(t, zap.WarnLevel, entries[1].Level)
		assert.Equal(t, "Export", entries[1].ContextMap()["title"])
	}
}
