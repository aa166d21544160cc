package repo

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SupportBot/model"
)

func registeredStore(t *testing.T, userID int64) *UserStore {
	t.Helper()
	s := NewUserStore()
	s.Register(model.UserProfile{
		UserID:      userID,
		FullName:    "Иван Иванов",
		Username:    "@ivan",
		PhoneNumber: "+77001234567",
	})
	return s
}

func TestRegisterIsOneTime(t *testing.T) {
	s := registeredStore(t, 1)
	require.NoError(t, s.RecordQuestion(1, "первый вопрос"))

	// A second registration must not wipe the question log.
	s.Register(model.UserProfile{UserID: 1, FullName: "Другое Имя"})

	p, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Иван Иванов", p.FullName)
	assert.Equal(t, []string{"первый вопрос"}, p.Questions)
}

func TestRecordQuestion_UnknownUser(t *testing.T) {
	s := NewUserStore()
	err := s.RecordQuestion(99, "вопрос")
	require.True(t, errors.Is(err, model.ErrUnknownUser))
	assert.False(t, s.Exists(99))
}

func TestRecordQuestion_PreservesOrder(t *testing.T) {
	s := registeredStore(t, 1)
	for i := 1; i <= 5; i++ {
		require.NoError(t, s.RecordQuestion(1, fmt.Sprintf("вопрос %d", i)))
	}
	assert.Equal(t, 5, s.QuestionCount(1))
	assert.Equal(t, []string{"вопрос 1", "вопрос 2", "вопрос 3", "вопрос 4", "вопрос 5"}, s.FullHistory(1))
}

func TestFullHistory_ReturnsCopy(t *testing.T) {
	s := registeredStore(t, 1)
	require.NoError(t, s.RecordQuestion(1, "оригинал"))

	history := s.FullHistory(1)
	history[0] = "подмена"

	assert.Equal(t, []string{"оригинал"}, s.FullHistory(1))
}

func TestFormatRecentHistory_NoBannerWithinWindow(t *testing.T) {
	s := registeredStore(t, 1)
	require.NoError(t, s.RecordQuestion(1, "первый"))
	require.NoError(t, s.RecordQuestion(1, "второй"))

	got := s.FormatRecentHistory(1)
	assert.Equal(t, "1. первый\n2. второй", got)
}

func TestFormatRecentHistory_BannerAndWindow(t *testing.T) {
	s := registeredStore(t, 1)
	for i := 1; i <= 5; i++ {
		require.NoError(t, s.RecordQuestion(1, fmt.Sprintf("вопрос %d", i)))
	}

	got := s.FormatRecentHistory(1)
	assert.True(t, strings.HasPrefix(got, "📜 Последние 3 вопроса (всего 5):\n"), got)
	assert.Contains(t, got, "3. вопрос 3")
	assert.Contains(t, got, "4. вопрос 4")
	assert.Contains(t, got, "5. вопрос 5")
	assert.NotContains(t, got, "вопрос 2")
}

func TestFormatRecentHistory_TruncatesLongQuestions(t *testing.T) {
	s := registeredStore(t, 1)
	long := strings.Repeat("я", 200)
	require.NoError(t, s.RecordQuestion(1, long))

	got := s.FormatRecentHistory(1)
	assert.Equal(t, "1. "+strings.Repeat("я", 150)+"...", got)

	// Storage keeps the full text; only the rendering is cut.
	assert.Equal(t, []string{long}, s.FullHistory(1))
}

func TestHasOverflowHistory(t *testing.T) {
	s := registeredStore(t, 1)
	for i := 0; i < model.MaxVisibleQuestions; i++ {
		require.NoError(t, s.RecordQuestion(1, "вопрос"))
	}
	assert.False(t, s.HasOverflowHistory(1))

	require.NoError(t, s.RecordQuestion(1, "еще один"))
	assert.True(t, s.HasOverflowHistory(1))
}

func TestGet_SnapshotDoesNotExposeStore(t *testing.T) {
	s := registeredStore(t, 1)
	require.NoError(t, s.RecordQuestion(1, "вопрос"))

	p, ok := s.Get(1)
	require.True(t, ok)
	p.Questions = append(p.Questions, "лишний")

	assert.Equal(t, 1, s.QuestionCount(1))
}
