package assessmenthandler

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	candidateid "github.com/bskqd/sd-solutions-test-task/lib/candidate-id"
	filestorage "github.com/bskqd/sd-solutions-test-task/lib/file-storage"
	gpthandler "github.com/bskqd/sd-solutions-test-task/lib/gpt"
	sharedcontext "github.com/bskqd/sd-solutions-test-task/lib/shared-context"
	"github.com/bskqd/sd-solutions-test-task/models"
	dbmodels "github.com/bskqd/sd-solutions-test-task/models/db"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// completerMock отвечает заранее заданным текстом в зависимости от системного промта
type completerMock struct {
	answers map[string]string
	texts   map[string]string
}

func (m *completerMock) GenerateByPromtAndText(ctx context.Context, promt, text string) (string, error) {
	m.texts[promt] = text
	return m.answers[promt], nil
}

type fileStorageMock struct {
	candidates  map[string]models.CandidateInfo
	sessionLogs map[string]models.SessionLog
	raw         map[string][]byte
	infoErr     error
	logErr      error
	calls       []string
}

func newFileStorageMock() *fileStorageMock {
	return &fileStorageMock{
		candidates:  map[string]models.CandidateInfo{},
		sessionLogs: map[string]models.SessionLog{},
		raw:         map[string][]byte{},
	}
}

func (m *fileStorageMock) SaveCandidateInfo(ctx context.Context, info models.CandidateInfo, ts time.Time) (string, error) {
	m.calls = append(m.calls, "SaveCandidateInfo")
	if m.infoErr != nil {
		return "", m.infoErr
	}
	name := filestorage.ObjectName(info.CandidateID, ts)
	data, err := json.Marshal(info)
	if err != nil {
		return "", err
	}
	m.raw[name] = data
	m.candidates[name] = info
	return "http://files.local/candidates-info/" + name, nil
}

func (m *fileStorageMock) SaveSessionLog(ctx context.Context, info models.CandidateInfo, ts time.Time, url string) error {
	m.calls = append(m.calls, "SaveSessionLog")
	if m.logErr != nil {
		return m.logErr
	}
	m.sessionLogs[filestorage.ObjectName(info.CandidateID, ts)] = models.SessionLog{
		CandidateID: info.CandidateID,
		JobTitle:    info.JobTitle,
		Timestamp:   filestorage.UnixTimestamp(ts),
		URL:         url,
	}
	return nil
}

func (m *fileStorageMock) GetCandidateInfo(ctx context.Context, objectName string) (models.CandidateInfo, error) {
	info, ok := m.candidates[objectName]
	if !ok {
		return models.CandidateInfo{}, models.ErrNotFound
	}
	return info, nil
}

func (m *fileStorageMock) ListSessionLogs(ctx context.Context) ([]models.SessionLog, error) {
	list := []models.SessionLog{}
	for _, rec := range m.sessionLogs {
		list = append(list, rec)
	}
	return list, nil
}

type testEnv struct {
	handler     Provider
	store       sharedcontext.Provider
	fileStorage *fileStorageMock
	completer   *completerMock
	redis       *miniredis.Miniredis
}

var fixedTime = time.Unix(1700000000, 500000000).UTC()

func getInstance(t *testing.T) testEnv {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := sharedcontext.NewInstance(client, "", 0)
	completer := &completerMock{
		answers: map[string]string{
			gpthandler.GenerateQuestionsSysPromt: `["1. What is a goroutine?", "2. How do you test code?", "3. What is a deadlock?"]`,
			gpthandler.EvaluateResponseSysPromt:  `[{"score": 4, "comment": "solid"}]`,
			gpthandler.ValidateScoresSysPromt:    `{"scores": [{"score": 5, "comment": "revised"}], "feedback": "Good"}`,
		},
		texts: map[string]string{},
	}
	fileStorage := newFileStorageMock()
	handler := &impl{
		sharedContext: store,
		agents:        gpthandler.NewHandler(completer, dbmodels.AiOpenAIType, nil, 3),
		fileStorage:   fileStorage,
		now:           func() time.Time { return fixedTime },
	}
	return testEnv{
		handler:     handler,
		store:       store,
		fileStorage: fileStorage,
		completer:   completer,
		redis:       mr,
	}
}

func TestAssessment(t *testing.T) {
	ctx := context.TODO()

	t.Run(`full interview is archived and removed from session store`, func(t *testing.T) {
		env := getInstance(t)
		generated, err := env.handler.GenerateQuestions(ctx, "Ada", "Lovelace", "Backend Engineer")
		require.Nil(t, err)
		require.Equal(t, candidateid.Derive("Ada", "Lovelace", "Backend Engineer"), generated.CandidateID)
		require.Len(t, generated.Questions, 3)
		require.Equal(t, "Generate 3 interview questions for a Backend Engineer.",
			env.completer.texts[gpthandler.GenerateQuestionsSysPromt])

		scores, err := env.handler.EvaluateResponse(ctx, generated.CandidateID, "I would use a queue.")
		require.Nil(t, err)
		require.Equal(t, []models.ScoreAndComment{{Score: 4, Comment: "solid"}}, scores)

		final, err := env.handler.Validate(ctx, generated.CandidateID)
		require.Nil(t, err)
		expected := models.CandidateInfo{
			CandidateID:       generated.CandidateID,
			FirstName:         "Ada",
			SecondName:        "Lovelace",
			JobTitle:          "Backend Engineer",
			Questions:         generated.Questions,
			CandidateResponse: "I would use a queue.",
			Scores:            []int{5},
			ResponseComments:  []string{"revised"},
			Feedback:          "Good",
		}
		require.Equal(t, expected, final)

		objectName := generated.CandidateID + "_1700000000.5.json"
		require.Equal(t, expected, env.fileStorage.candidates[objectName])
		require.Equal(t, models.SessionLog{
			CandidateID: generated.CandidateID,
			JobTitle:    "Backend Engineer",
			Timestamp:   1700000000.5,
			URL:         "http://files.local/candidates-info/" + objectName,
		}, env.fileStorage.sessionLogs[objectName])
		require.Equal(t, []string{"SaveCandidateInfo", "SaveSessionLog"}, env.fileStorage.calls)

		_, err = env.store.Get(ctx, generated.CandidateID)
		require.True(t, errors.Is(err, models.ErrNotFound))
	})

	t.Run(`record after questions generation`, func(t *testing.T) {
		env := getInstance(t)
		generated, err := env.handler.GenerateQuestions(ctx, "Ada", "Lovelace", "Backend Engineer")
		require.Nil(t, err)
		rec, err := env.store.Get(ctx, generated.CandidateID)
		require.Nil(t, err)
		require.Equal(t, models.CandidateInfo{
			CandidateID:      generated.CandidateID,
			FirstName:        "Ada",
			SecondName:       "Lovelace",
			JobTitle:         "Backend Engineer",
			Questions:        generated.Questions,
			Scores:           []int{},
			ResponseComments: []string{},
		}, rec)
	})

	t.Run(`evaluation prompt contains stored questions`, func(t *testing.T) {
		env := getInstance(t)
		generated, err := env.handler.GenerateQuestions(ctx, "Ada", "Lovelace", "Backend Engineer")
		require.Nil(t, err)
		_, err = env.handler.EvaluateResponse(ctx, generated.CandidateID, "answer")
		require.Nil(t, err)
		require.Equal(t,
			"Job Title: Backend Engineer\n"+
				`Questions: ["1. What is a goroutine?","2. How do you test code?","3. What is a deadlock?"]`+"\n"+
				"Response: answer\n",
			env.completer.texts[gpthandler.EvaluateResponseSysPromt])

		rec, err := env.store.Get(ctx, generated.CandidateID)
		require.Nil(t, err)
		require.Equal(t, "answer", rec.CandidateResponse)
		require.Equal(t, []int{4}, rec.Scores)
		require.Equal(t, []string{"solid"}, rec.ResponseComments)
		require.Equal(t, generated.Questions, rec.Questions)
		require.Equal(t, "", rec.Feedback)
	})

	t.Run(`unknown candidate`, func(t *testing.T) {
		env := getInstance(t)
		_, err := env.handler.EvaluateResponse(ctx, "unknown", "answer")
		require.True(t, errors.Is(err, models.ErrNotFound))
		_, err = env.handler.Validate(ctx, "unknown")
		require.True(t, errors.Is(err, models.ErrNotFound))

		neverCreated := candidateid.Derive("Grace", "Hopper", "Compiler Engineer")
		_, err = env.handler.EvaluateResponse(ctx, neverCreated, "answer")
		require.True(t, errors.Is(err, models.ErrNotFound))
		_, err = env.handler.Validate(ctx, neverCreated)
		require.True(t, errors.Is(err, models.ErrNotFound))
		require.Empty(t, env.fileStorage.calls)
	})

	t.Run(`regeneration resets previous progress`, func(t *testing.T) {
		env := getInstance(t)
		generated, err := env.handler.GenerateQuestions(ctx, "Ada", "Lovelace", "Backend Engineer")
		require.Nil(t, err)
		_, err = env.handler.EvaluateResponse(ctx, generated.CandidateID, "answer")
		require.Nil(t, err)
		_, err = env.handler.GenerateQuestions(ctx, "Ada", "Lovelace", "Backend Engineer")
		require.Nil(t, err)
		rec, err := env.store.Get(ctx, generated.CandidateID)
		require.Nil(t, err)
		require.Equal(t, "", rec.CandidateResponse)
		require.Equal(t, []int{}, rec.Scores)
	})

	t.Run(`archive failure keeps session record`, func(t *testing.T) {
		env := getInstance(t)
		env.fileStorage.infoErr = &models.ArchiveUnavailableError{Bucket: "candidates-info", Err: errors.New("timeout")}
		generated, err := env.handler.GenerateQuestions(ctx, "Ada", "Lovelace", "Backend Engineer")
		require.Nil(t, err)
		_, err = env.handler.EvaluateResponse(ctx, generated.CandidateID, "answer")
		require.Nil(t, err)

		_, err = env.handler.Validate(ctx, generated.CandidateID)
		var archiveErr *models.ArchiveUnavailableError
		require.True(t, errors.As(err, &archiveErr))
		require.Equal(t, []string{"SaveCandidateInfo"}, env.fileStorage.calls)

		rec, err := env.store.Get(ctx, generated.CandidateID)
		require.Nil(t, err)
		require.Equal(t, "Good", rec.Feedback)
	})

	t.Run(`session log failure keeps session record`, func(t *testing.T) {
		env := getInstance(t)
		env.fileStorage.logErr = &models.ArchiveUnavailableError{Bucket: "logs", Err: errors.New("timeout")}
		generated, err := env.handler.GenerateQuestions(ctx, "Ada", "Lovelace", "Backend Engineer")
		require.Nil(t, err)

		_, err = env.handler.Validate(ctx, generated.CandidateID)
		require.NotNil(t, err)
		_, err = env.store.Get(ctx, generated.CandidateID)
		require.Nil(t, err)
	})

	t.Run(`archived record round trip`, func(t *testing.T) {
		env := getInstance(t)
		generated, err := env.handler.GenerateQuestions(ctx, "Ada", "Lovelace", "Backend Engineer")
		require.Nil(t, err)
		_, err = env.handler.EvaluateResponse(ctx, generated.CandidateID, "I would use a queue.")
		require.Nil(t, err)
		final, err := env.handler.Validate(ctx, generated.CandidateID)
		require.Nil(t, err)

		var parsed models.CandidateInfo
		require.Nil(t, json.Unmarshal(env.fileStorage.raw[generated.CandidateID+"_1700000000.5.json"], &parsed))
		require.Equal(t, final, parsed)
	})

	t.Run(`validation without evaluation`, func(t *testing.T) {
		env := getInstance(t)
		generated, err := env.handler.GenerateQuestions(ctx, "Ada", "Lovelace", "Backend Engineer")
		require.Nil(t, err)
		final, err := env.handler.Validate(ctx, generated.CandidateID)
		require.Nil(t, err)
		require.Equal(t, "", final.CandidateResponse)
		require.Equal(t, []int{5}, final.Scores)
		require.Contains(t, env.completer.texts[gpthandler.ValidateScoresSysPromt], "Scores: []\nComments: []")
	})

	t.Run(`malformed agent answer`, func(t *testing.T) {
		env := getInstance(t)
		env.completer.answers[gpthandler.GenerateQuestionsSysPromt] = "Sure! Here are questions: 1. ..."
		_, err := env.handler.GenerateQuestions(ctx, "Ada", "Lovelace", "Backend Engineer")
		var formatErr *models.AgentFormatError
		require.True(t, errors.As(err, &formatErr))
		_, err = env.store.Get(ctx, candidateid.Derive("Ada", "Lovelace", "Backend Engineer"))
		require.True(t, errors.Is(err, models.ErrNotFound))
	})
}
