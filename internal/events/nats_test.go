package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"course-service/internal/events"
	"course-service/internal/logger"
	"course-service/testing/testnats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNATSPublisherIntegration(t *testing.T) {
	natsContainer := testnats.SetupSharedNATS(t)
	defer natsContainer.Cleanup(t)

	conn := natsContainer.Connect(t)

	pub, err := events.NewNATSPublisher(natsContainer.URL, "courses", logger.Discard())
	require.NoError(t, err)
	defer pub.Close()

	t.Run("Publish_UsesPrefixedSubject", func(t *testing.T) {
		sub, err := conn.SubscribeSync("courses.enrollment.created")
		require.NoError(t, err)
		defer sub.Unsubscribe()
		require.NoError(t, conn.Flush())

		err = pub.Publish(context.Background(), events.Event{
			Type:       events.EnrollmentCreated,
			OccurredAt: time.Now().UTC(),
			Payload:    map[string]int{"courseId": 3, "userId": 9},
		})
		require.NoError(t, err)

		msg, err := sub.NextMsg(2 * time.Second)
		require.NoError(t, err)

		var got struct {
			Type    string         `json:"type"`
			Payload map[string]int `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		assert.Equal(t, events.EnrollmentCreated, got.Type)
		assert.Equal(t, 3, got.Payload["courseId"])
		assert.Equal(t, 9, got.Payload["userId"])
	})

	t.Run("Subject_NoPrefix", func(t *testing.T) {
		bare, err := events.NewNATSPublisher(natsContainer.URL, "", logger.Discard())
		require.NoError(t, err)
		defer bare.Close()

		assert.Equal(t, "course.deleted", bare.Subject(events.CourseDeleted))
	})
}
