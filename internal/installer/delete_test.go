package installer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/imamik/kpkg/internal/manifest"
	"github.com/imamik/kpkg/internal/tracking"
)

func threeEntryLog() *tracking.Log {
	log := tracking.New()
	log.Append(object("v1", "Namespace", "", "shop", nil))
	log.Append(object("v1", "ConfigMap", "shop", "settings", nil))
	log.Append(object("v1", "ServiceAccount", "shop", "runner", nil))
	return log
}

func forbidden(resource string) error {
	return apierrors.NewForbidden(schema.GroupResource{Resource: resource}, "x", errors.New("denied"))
}

func TestRevert_StrictReverse(t *testing.T) {
	t.Parallel()
	log := threeEntryLog()
	// The ConfigMap is already gone.
	h := newHarness(t, []runtime.Object{log.At(0).DeepCopy(), log.At(2).DeepCopy()})

	deleted, err := h.engine.Revert(context.Background(), log, "", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"serviceaccounts/runner", "configmaps/settings", "namespaces/shop"}, h.deletes())
	assert.Equal(t, []manifest.Ref{
		{Kind: "ServiceAccount", Namespace: "shop", Name: "runner"},
		{Kind: "Namespace", Name: "shop"},
	}, deleted.Refs())
	assert.Equal(t, 0, log.Len())
}

func TestRevert_FromIndex(t *testing.T) {
	t.Parallel()
	log := threeEntryLog()
	h := newHarness(t, nil)

	_, err := h.engine.Revert(context.Background(), log, "", 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"serviceaccounts/runner", "configmaps/settings"}, h.deletes())
	require.Equal(t, 1, log.Len())
	assert.Equal(t, "Namespace", log.At(0).GetKind())
}

func TestRevert_DefaultNamespace(t *testing.T) {
	t.Parallel()
	log := tracking.New()
	log.Append(object("v1", "ConfigMap", "", "settings", nil))
	h := newHarness(t, []runtime.Object{object("v1", "ConfigMap", "shop", "settings", nil)})

	deleted, err := h.engine.Revert(context.Background(), log, "shop", 0)
	require.NoError(t, err)
	assert.Len(t, deleted, 1)
	assert.Equal(t, "shop", h.fake.Actions()[0].GetNamespace())
}

func TestRevert_AbortOnError(t *testing.T) {
	t.Parallel()
	log := threeEntryLog()
	h := newHarness(t, nil)
	h.fake.PrependReactor("delete", "configmaps", reactWith(forbidden("configmaps")))

	_, err := h.engine.Revert(context.Background(), log, "", 0)

	var delErr *DeleteError
	require.ErrorAs(t, err, &delErr)
	assert.Equal(t, "settings", delErr.Resource.Name)
	assert.Equal(t, []string{"serviceaccounts/runner", "configmaps/settings"}, h.deletes())
	assert.Equal(t, 2, log.Len(), "failed entry and everything older stay in the log")
}

func TestRevert_ContinueOnError(t *testing.T) {
	t.Parallel()
	log := threeEntryLog()
	h := newHarness(t, nil, WithDeletePolicy(ContinueOnError))
	h.fake.PrependReactor("delete", "configmaps", reactWith(forbidden("configmaps")))

	_, err := h.engine.Revert(context.Background(), log, "", 0)

	require.Error(t, err)
	assert.Equal(t, []string{"serviceaccounts/runner", "configmaps/settings", "namespaces/shop"}, h.deletes())
	require.Equal(t, 1, log.Len())
	assert.Equal(t, "ConfigMap", log.At(0).GetKind())
}

func TestUninstall_Scenario(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	log := tracking.New()

	require.NoError(t, h.engine.Install(context.Background(), shopSequence(t), log))
	require.Equal(t, 5, log.Len())
	assert.Equal(t, "Namespace", log.At(0).GetKind())

	h.fake.ClearActions()
	deleted, err := h.engine.Uninstall(context.Background(), shopIdentity)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"services/shop",
		"deployments/shop",
		"serviceaccounts/shop",
		"configmaps/shop-config",
		"namespaces/shop",
	}, h.deletes())
	assert.Len(t, deleted, 5)
}

func TestUninstall_NothingInstalled(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)

	deleted, err := h.engine.Uninstall(context.Background(), shopIdentity)
	require.NoError(t, err)
	assert.Empty(t, deleted)
	assert.Empty(t, h.deletes())
}

func TestUninstall_SkipsAlreadyDeleted(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	require.NoError(t, h.engine.Install(context.Background(), shopSequence(t), tracking.New()))
	h.fake.PrependReactor("delete", "deployments", reactWith(apierrors.NewNotFound(schema.GroupResource{Group: "apps", Resource: "deployments"}, "shop")))

	deleted, err := h.engine.Uninstall(context.Background(), shopIdentity)
	require.NoError(t, err)

	assert.Len(t, deleted, 4)
	for _, obj := range deleted {
		assert.NotEqual(t, "Deployment", obj.GetKind())
	}
}

func TestUninstall_AbortOnError(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	require.NoError(t, h.engine.Install(context.Background(), shopSequence(t), tracking.New()))
	h.fake.ClearActions()
	h.fake.PrependReactor("delete", "deployments", reactWith(forbidden("deployments")))

	deleted, err := h.engine.Uninstall(context.Background(), shopIdentity)

	var delErr *DeleteError
	require.ErrorAs(t, err, &delErr)
	assert.Equal(t, "Deployment", delErr.Resource.Kind)
	assert.Len(t, deleted, 1)
	assert.Equal(t, []string{"services/shop", "deployments/shop"}, h.deletes())
}

func TestSortByApplyOrder(t *testing.T) {
	t.Parallel()
	a := object("v1", "ConfigMap", "shop", "a", nil)
	b := object("v1", "ConfigMap", "shop", "b", nil)
	c := object("v1", "ConfigMap", "shop", "c", nil)
	d := object("v1", "ConfigMap", "shop", "d", nil)
	stampApplyOrder(a, 3)
	stampApplyOrder(c, 1)

	seq := manifest.Sequence{a, b, c, d}
	sortByApplyOrder(seq)

	names := make([]string, 0, len(seq))
	for _, obj := range seq {
		names = append(names, obj.GetName())
	}
	assert.Equal(t, []string{"c", "a", "b", "d"}, names)
}
