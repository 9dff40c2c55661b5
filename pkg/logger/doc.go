// Package logger provides the structured logging interface used across
// knewkarma.
//
// It wraps zerolog with a small interface so that packages can log with
// fields without depending on zerolog directly:
//
//	log := logger.GetLogger().WithField("community", "golang")
//	log.InfoWithFields("pagination finished", map[string]interface{}{
//		"pages": 3,
//		"items": 250,
//	})
//
// NewNopLogger discards everything; NewTestLogger captures entries for
// assertions in tests.
package logger
