package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"tube-fusion/app/extractor"
	"tube-fusion/app/model"
)

type fakeVideoStore struct {
	channels map[string]*model.Channel
	videos   map[string]*model.Video
	saved    []*model.Video
	saveErr  error
}

func newFakeVideoStore() *fakeVideoStore {
	return &fakeVideoStore{
		channels: make(map[string]*model.Channel),
		videos:   make(map[string]*model.Video),
	}
}

func (f *fakeVideoStore) GetChannelByUploaderID(uploaderID string) (*model.Channel, error) {
	if ch, ok := f.channels[uploaderID]; ok {
		return ch, nil
	}
	return nil, fmt.Errorf("%w: 频道 %q", model.ErrNotFound, uploaderID)
}

func (f *fakeVideoStore) GetVideoByID(id string) (*model.Video, error) {
	if v, ok := f.videos[id]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: 视频 %q", model.ErrNotFound, id)
}

func (f *fakeVideoStore) CreateVideoIgnore(video *model.Video) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, video)
	f.videos[video.ID] = video
	return nil
}

func fullVideoInfo() *extractor.Info {
	views := int64(1000)
	return &extractor.Info{
		ID:          "abc",
		Title:       "a video",
		Description: "desc",
		WebpageURL:  "https://www.youtube.com/watch?v=abc",
		UploaderID:  "@foo",
		Duration:    120,
		ViewCount:   &views,
	}
}

func TestVideoIngest_UnknownChannelProducesFollowUp(t *testing.T) {
	st := newFakeVideoStore()
	svc := NewVideoIngestService(st, &fakeExtractor{info: fullVideoInfo()}, testLogger())

	followUps, err := svc.Ingest(context.Background(), "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(followUps) != 1 || followUps[0] != "@foo" {
		t.Fatalf("expected exactly one follow-up for @foo, got %v", followUps)
	}
	if len(st.saved) != 1 || st.saved[0].ID != "abc" {
		t.Fatalf("video should still be ingested, got %+v", st.saved)
	}
	if st.saved[0].ChannelID != "@foo" {
		t.Fatalf("video should reference uploader id, got %q", st.saved[0].ChannelID)
	}
}

func TestVideoIngest_KnownChannelNoFollowUp(t *testing.T) {
	st := newFakeVideoStore()
	st.channels["@foo"] = &model.Channel{ID: "UC123", UploaderID: "@foo"}
	svc := NewVideoIngestService(st, &fakeExtractor{info: fullVideoInfo()}, testLogger())

	followUps, err := svc.Ingest(context.Background(), "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(followUps) != 0 {
		t.Fatalf("expected no follow-ups, got %v", followUps)
	}
}

func TestVideoIngest_DuplicateIsNoOpSuccess(t *testing.T) {
	st := newFakeVideoStore()
	st.channels["@foo"] = &model.Channel{ID: "UC123", UploaderID: "@foo"}
	st.videos["abc"] = &model.Video{ID: "abc"}
	svc := NewVideoIngestService(st, &fakeExtractor{info: fullVideoInfo()}, testLogger())

	_, err := svc.Ingest(context.Background(), "abc")
	if err != nil {
		t.Fatalf("re-ingesting a known video must succeed, got %v", err)
	}
	if len(st.saved) != 0 {
		t.Fatalf("no duplicate row may be written, got %+v", st.saved)
	}
}

func TestVideoIngest_ExtractorFailure(t *testing.T) {
	st := newFakeVideoStore()
	svc := NewVideoIngestService(st, &fakeExtractor{err: errors.New("scrape raised")}, testLogger())

	_, err := svc.Ingest(context.Background(), "xyz")
	if !errors.Is(err, model.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
	if len(st.saved) != 0 {
		t.Fatal("nothing should be saved on extraction failure")
	}
}

// 视频任务挂到真实队列上跑一遍失败路径：
// 快照进入 failed 且带错误信息，库里没有该视频。
func TestVideoIngest_FailureThroughQueue(t *testing.T) {
	st := newFakeVideoStore()
	svc := NewVideoIngestService(st, &fakeExtractor{err: errors.New("scrape raised")}, testLogger())

	q := NewIngestQueue("videos", svc.Ingest, nil, testLogger())
	q.Start()
	defer q.Stop()

	q.Enqueue("xyz")
	waitFor(t, func() bool { return len(q.Snapshot().Failed) == 1 })

	snap := q.Snapshot()
	if snap.Failed[0].ID != "xyz" || snap.Failed[0].Error == "" {
		t.Fatalf("unexpected failed entry: %+v", snap.Failed[0])
	}
	if _, ok := st.videos["xyz"]; ok {
		t.Fatal("failed ingest must not leave a row in the store")
	}
}

func TestVideoIngest_StoreFailure(t *testing.T) {
	st := newFakeVideoStore()
	st.saveErr = fmt.Errorf("%w: constraint violated", model.ErrStore)
	svc := NewVideoIngestService(st, &fakeExtractor{info: fullVideoInfo()}, testLogger())

	_, err := svc.Ingest(context.Background(), "abc")
	if !errors.Is(err, model.ErrStore) {
		t.Fatalf("expected ErrStore, got %v", err)
	}
}
