package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/autobmg/processdocs/internal/domain/model"
	"github.com/autobmg/processdocs/internal/mocks"
)

func TestNewCollectorService_RequiredDependencies(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	assert.Panics(t, func() {
		NewCollectorService(CollectorServiceOptions{Store: nil, DocsPrefix: "documents"})
	})
	assert.Panics(t, func() {
		NewCollectorService(CollectorServiceOptions{Store: mocks.NewMockObjectStore(ctrl), DocsPrefix: "  "})
	})
}

func TestCollectorList_FiltersFolderMarkers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockObjectStore(ctrl)
	store.EXPECT().
		List(gomock.Any(), "documents/downloads/CIV1001/").
		Return([]string{
			"documents/downloads/CIV1001/",
			"documents/downloads/CIV1001/summons.pdf",
			"documents/downloads/CIV1001/exhibits/",
			"documents/downloads/CIV1001/exhibits/a.pdf",
		}, nil)

	svc := NewCollectorService(CollectorServiceOptions{Store: store, DocsPrefix: "documents/downloads"})

	keys, err := svc.List(context.Background(), "CIV1001")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"documents/downloads/CIV1001/summons.pdf",
		"documents/downloads/CIV1001/exhibits/a.pdf",
	}, keys)
}

func TestCollectorList_EmptyCase(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockObjectStore(ctrl)
	store.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return([]string{"documents/downloads/CIV1002/"}, nil)

	svc := NewCollectorService(CollectorServiceOptions{Store: store, DocsPrefix: "documents/downloads"})

	_, err := svc.List(context.Background(), "CIV1002")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNoDocuments)
}

func TestCollectorList_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	listErr := errors.New("access denied")
	store := mocks.NewMockObjectStore(ctrl)
	store.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, listErr)

	svc := NewCollectorService(CollectorServiceOptions{Store: store, DocsPrefix: "documents/downloads"})

	_, err := svc.List(context.Background(), "CIV1003")
	require.Error(t, err)

	failure, ok := model.AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, model.FailureTransport, failure.Kind)
	assert.ErrorIs(t, err, listErr)
}

func TestCollectorList_PrefixNormalisation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockObjectStore(ctrl)
	store.EXPECT().
		List(gomock.Any(), "docs/CIV1004/").
		Return([]string{"docs/CIV1004/file.pdf"}, nil)

	// A slash-padded prefix must normalise to the same case folder.
	svc := NewCollectorService(CollectorServiceOptions{Store: store, DocsPrefix: "/docs/"})

	keys, err := svc.List(context.Background(), "CIV1004")
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}
