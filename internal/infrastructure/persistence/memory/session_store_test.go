package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/questkitchen/backend/internal/domain/session"
)

// SessionStoreTestSuite provides a test suite for the in-memory session store
type SessionStoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *SessionStore
}

func (suite *SessionStoreTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = NewSessionStore(zap.NewNop())
}

func (suite *SessionStoreTestSuite) SetupSubTest() {
	suite.SetupTest()
}

func (suite *SessionStoreTestSuite) newSession(ttl time.Duration) *session.Session {
	sess, err := session.New(uuid.New(), "test_user", ttl)
	require.NoError(suite.T(), err)
	return sess
}

func (suite *SessionStoreTestSuite) TestSaveAndFind() {
	suite.Run("SaveAndFind_RoundTrips", func() {
		// Arrange
		sess := suite.newSession(time.Hour)

		// Act
		require.NoError(suite.T(), suite.store.Save(suite.ctx, sess))
		found, err := suite.store.Find(suite.ctx, sess.ID)

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), sess.ID, found.ID)
		assert.Equal(suite.T(), sess.UserID, found.UserID)
		assert.Equal(suite.T(), sess.Username, found.Username)
		assert.Equal(suite.T(), sess.CSRFToken, found.CSRFToken)
	})

	suite.Run("Find_UnknownID_ReturnsNotFound", func() {
		// Act
		_, err := suite.store.Find(suite.ctx, "no-such-session")

		// Assert
		assert.ErrorIs(suite.T(), err, session.ErrNotFound)
	})

	suite.Run("Find_ExpiredSession_ReturnsNotFoundAndPrunes", func() {
		// Arrange
		sess := suite.newSession(time.Hour)
		sess.ExpiresAt = time.Now().Add(-time.Minute)
		require.NoError(suite.T(), suite.store.Save(suite.ctx, sess))

		// Act
		_, err := suite.store.Find(suite.ctx, sess.ID)

		// Assert
		assert.ErrorIs(suite.T(), err, session.ErrNotFound)
		assert.Equal(suite.T(), 0, suite.store.Len())
	})

	suite.Run("Save_SameID_Overwrites", func() {
		// Arrange
		sess := suite.newSession(time.Hour)
		require.NoError(suite.T(), suite.store.Save(suite.ctx, sess))

		sess.CSRFToken = "replacement-token"

		// Act
		require.NoError(suite.T(), suite.store.Save(suite.ctx, sess))
		found, err := suite.store.Find(suite.ctx, sess.ID)

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "replacement-token", found.CSRFToken)
		assert.Equal(suite.T(), 1, suite.store.Len())
	})

	suite.Run("Find_ReturnsCopy_MutationsDoNotLeakIntoStore", func() {
		// Arrange
		sess := suite.newSession(time.Hour)
		require.NoError(suite.T(), suite.store.Save(suite.ctx, sess))

		// Act
		first, err := suite.store.Find(suite.ctx, sess.ID)
		require.NoError(suite.T(), err)
		first.Username = "mutated"

		second, err := suite.store.Find(suite.ctx, sess.ID)

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "test_user", second.Username)
	})
}

func (suite *SessionStoreTestSuite) TestDelete() {
	suite.Run("Delete_StoredSession_Removes", func() {
		// Arrange
		sess := suite.newSession(time.Hour)
		require.NoError(suite.T(), suite.store.Save(suite.ctx, sess))

		// Act
		require.NoError(suite.T(), suite.store.Delete(suite.ctx, sess.ID))

		// Assert
		_, err := suite.store.Find(suite.ctx, sess.ID)
		assert.ErrorIs(suite.T(), err, session.ErrNotFound)
	})

	suite.Run("Delete_AbsentSession_IsNoError", func() {
		// Act & Assert
		assert.NoError(suite.T(), suite.store.Delete(suite.ctx, "never-existed"))
		assert.NoError(suite.T(), suite.store.Delete(suite.ctx, ""))
	})
}

func (suite *SessionStoreTestSuite) TestDeleteExpired() {
	suite.Run("DeleteExpired_RemovesOnlyExpiredSessions", func() {
		// Arrange
		live := suite.newSession(time.Hour)
		expired1 := suite.newSession(time.Hour)
		expired1.ExpiresAt = time.Now().Add(-time.Minute)
		expired2 := suite.newSession(time.Hour)
		expired2.ExpiresAt = time.Now().Add(-time.Hour)

		for _, sess := range []*session.Session{live, expired1, expired2} {
			require.NoError(suite.T(), suite.store.Save(suite.ctx, sess))
		}

		// Act
		removed, err := suite.store.DeleteExpired(suite.ctx)

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 2, removed)
		assert.Equal(suite.T(), 1, suite.store.Len())

		_, err = suite.store.Find(suite.ctx, live.ID)
		assert.NoError(suite.T(), err)
	})
}

func (suite *SessionStoreTestSuite) TestCleanupLoop() {
	suite.Run("StartCleanup_ReapsExpiredSessionsInBackground", func() {
		// Arrange
		expired := suite.newSession(time.Hour)
		expired.ExpiresAt = time.Now().Add(-time.Minute)
		require.NoError(suite.T(), suite.store.Save(suite.ctx, expired))

		// Act
		stop := suite.store.StartCleanup(10 * time.Millisecond)
		defer stop()

		// Assert
		assert.Eventually(suite.T(), func() bool {
			return suite.store.Len() == 0
		}, time.Second, 10*time.Millisecond)
	})

	suite.Run("StartCleanup_StopTerminatesLoop", func() {
		// Arrange
		stop := suite.store.StartCleanup(10 * time.Millisecond)

		// Act: stopping twice must not panic
		stop()
		stop()

		sess := suite.newSession(-time.Minute)
		require.NoError(suite.T(), suite.store.Save(suite.ctx, sess))

		// Assert: the stopped loop no longer reaps
		time.Sleep(50 * time.Millisecond)
		assert.Equal(suite.T(), 1, suite.store.Len())
	})
}

// TestSessionStoreTestSuite runs the in-memory session store test suite
func TestSessionStoreTestSuite(t *testing.T) {
	suite.Run(t, new(SessionStoreTestSuite))
}
