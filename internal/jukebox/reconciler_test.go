package jukebox

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/fake"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	ctrlfake "sigs.k8s.io/controller-runtime/pkg/client/fake"

	vynilv1 "github.com/sebt3/vynil/api/v1"
	"github.com/sebt3/vynil/internal/packagecache"
	"github.com/sebt3/vynil/internal/registry"
)

func testScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	s := runtime.NewScheme()
	require.NoError(t, clientgoscheme.AddToScheme(s))
	require.NoError(t, vynilv1.AddToScheme(s))
	return s
}

// TestReconcileListSourceSurfacesResolutionFailure exercises the refresh
// path end to end against a fake clientset with no pushed image, which
// confirms failures are reported through status/events rather than
// catalogueing a zero-value record.
func TestReconcileListSourceSurfacesResolutionFailure(t *testing.T) {
	jb := &vynilv1.JukeBox{
		ObjectMeta: metav1.ObjectMeta{Name: "box1"},
		Spec: vynilv1.JukeBoxSpec{
			Source: vynilv1.JukeBoxSource{
				Kind: vynilv1.JukeBoxSourceList,
				List: []vynilv1.JukeBoxListEntry{
					{Registry: "ghcr.io", Image: "vynil/postgres", Tag: "1.0.0"},
				},
			},
		},
	}
	c := ctrlfake.NewClientBuilder().WithScheme(testScheme(t)).WithObjects(jb).WithStatusSubresource(jb).Build()
	r := &Reconciler{
		Client:    c,
		Cache:     packagecache.New(),
		Clientset: fake.NewSimpleClientset(),
		Recorder:  record.NewFakeRecorder(10),
		RegistryFn: func(cs kubernetes.Interface, ns, secret string) *registry.Client {
			return registry.NewClient(cs, ns, secret)
		},
	}

	_, err := r.Reconcile(context.Background(), ctrl.Request{NamespacedName: types.NamespacedName{Name: "box1"}})
	require.Error(t, err)
}

func TestReconcileMissingJukeBoxIsANoop(t *testing.T) {
	c := ctrlfake.NewClientBuilder().WithScheme(testScheme(t)).Build()
	r := &Reconciler{Client: c, Cache: packagecache.New(), Recorder: record.NewFakeRecorder(10)}

	result, err := r.Reconcile(context.Background(), ctrl.Request{NamespacedName: types.NamespacedName{Name: "missing"}})
	require.NoError(t, err)
	require.Zero(t, result.RequeueAfter)
}

func TestNextIntervalDefaultsOnEmptySchedule(t *testing.T) {
	d := nextInterval("")
	require.Greater(t, d.Seconds(), 0.0)
}

func TestNextIntervalFallsBackOnInvalidCron(t *testing.T) {
	d := nextInterval("not a cron expression")
	require.Equal(t, float64(15*60), d.Seconds())
}

func TestDedupAndSortRemovesDuplicatesAndOrders(t *testing.T) {
	mk := func(category, name, tag string) vynilv1.PackageRecord {
		return vynilv1.PackageRecord{Tag: tag, Metadata: vynilv1.PackageMetadata{Category: category, Name: name}}
	}
	in := []vynilv1.PackageRecord{
		mk("web", "nginx", "1.0.0"),
		mk("web", "nginx", "2.0.0"),
		mk("web", "nginx", "1.0.0"), // duplicate of the first, dropped
		mk("db", "postgres", "14.2.0"),
	}
	out := dedupAndSort(in)
	require.Len(t, out, 3)
	require.Equal(t, "db", out[0].Metadata.Category)
	require.Equal(t, "web", out[1].Metadata.Category)
	require.Equal(t, "2.0.0", out[1].Tag)
	require.Equal(t, "1.0.0", out[2].Tag)
}
