package requirements

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	vynilv1 "github.com/sebt3/vynil/api/v1"
	"github.com/sebt3/vynil/internal/packagecache"
	"github.com/sebt3/vynil/internal/scripting"
)

func testScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	s := runtime.NewScheme()
	require.NoError(t, clientgoscheme.AddToScheme(s))
	require.NoError(t, vynilv1.AddToScheme(s))
	return s
}

type fakeStorage struct{ ok bool }

func (f fakeStorage) Advertises(context.Context, vynilv1.StorageCapability) (bool, error) {
	return f.ok, nil
}

func TestCheckSystemPackageSatisfied(t *testing.T) {
	ready := &vynilv1.SystemInstance{
		ObjectMeta: metav1.ObjectMeta{Name: "postgres-sys", Namespace: "ns1"},
		Spec:       vynilv1.SystemInstanceSpec{InstanceSpec: vynilv1.InstanceSpec{Category: "db", Package: "postgres"}},
		Status: vynilv1.SystemInstanceStatus{InstanceStatus: vynilv1.InstanceStatus{
			Conditions: []metav1.Condition{{Type: vynilv1.ConditionTypeReady, Status: metav1.ConditionTrue, Reason: "Ok"}},
		}},
	}
	c := fake.NewClientBuilder().WithScheme(testScheme(t)).WithObjects(ready).Build()

	rc := Context{Client: c, Cache: packagecache.New()}
	err := Check(context.Background(), rc, []vynilv1.PackageRequirement{
		{Kind: vynilv1.RequirementSystemPackage, Category: "db", Name: "postgres"},
	})
	require.NoError(t, err)
}

func TestCheckSystemPackageMissing(t *testing.T) {
	c := fake.NewClientBuilder().WithScheme(testScheme(t)).Build()
	rc := Context{Client: c, Cache: packagecache.New()}
	err := Check(context.Background(), rc, []vynilv1.PackageRequirement{
		{Kind: vynilv1.RequirementSystemPackage, Category: "db", Name: "postgres"},
	})
	require.Error(t, err)
}

func TestCheckSystemPackageNotReadyIsUnsatisfied(t *testing.T) {
	notReady := &vynilv1.SystemInstance{
		ObjectMeta: metav1.ObjectMeta{Name: "postgres-sys", Namespace: "ns1"},
		Spec:       vynilv1.SystemInstanceSpec{InstanceSpec: vynilv1.InstanceSpec{Category: "db", Package: "postgres"}},
	}
	c := fake.NewClientBuilder().WithScheme(testScheme(t)).WithObjects(notReady).Build()

	rc := Context{Client: c, Cache: packagecache.New()}
	err := Check(context.Background(), rc, []vynilv1.PackageRequirement{
		{Kind: vynilv1.RequirementSystemPackage, Category: "db", Name: "postgres"},
	})
	require.Error(t, err)
}

func TestCheckStorageCapability(t *testing.T) {
	rc := Context{Storage: fakeStorage{ok: true}}
	err := Check(context.Background(), rc, []vynilv1.PackageRequirement{
		{Kind: vynilv1.RequirementStorageCapability, Storage: vynilv1.StorageCapabilityRWX},
	})
	require.NoError(t, err)

	rc = Context{Storage: fakeStorage{ok: false}}
	err = Check(context.Background(), rc, []vynilv1.PackageRequirement{
		{Kind: vynilv1.RequirementStorageCapability, Storage: vynilv1.StorageCapabilityRWX},
	})
	require.Error(t, err)
}

func TestCheckMinimumPreviousVersion(t *testing.T) {
	rc := Context{Previous: "2.0.0"}
	err := Check(context.Background(), rc, []vynilv1.PackageRequirement{
		{Kind: vynilv1.RequirementMinimumPreviousVersion, MinimumVersion: "1.5.0"},
	})
	require.NoError(t, err)

	rc = Context{Previous: "1.0.0"}
	err = Check(context.Background(), rc, []vynilv1.PackageRequirement{
		{Kind: vynilv1.RequirementMinimumPreviousVersion, MinimumVersion: "1.5.0"},
	})
	require.Error(t, err)
}

func TestCheckPrefly(t *testing.T) {
	eval := scripting.New()
	eval.SetVariable("ready", true)
	rc := Context{Eval: eval}
	err := Check(context.Background(), rc, []vynilv1.PackageRequirement{
		{Kind: vynilv1.RequirementPrefly, PreflyScript: "ready", PreflyName: "cluster-ready"},
	})
	require.NoError(t, err)
}
