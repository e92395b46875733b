package instance

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	batchv1 "k8s.io/api/batch/v1"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"

	vynilv1 "github.com/sebt3/vynil/api/v1"
	"github.com/sebt3/vynil/internal/conditions"
	"github.com/sebt3/vynil/internal/digest"
	"github.com/sebt3/vynil/internal/jobtemplate"
	"github.com/sebt3/vynil/internal/packagecache"
)

func testScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	s := runtime.NewScheme()
	require.NoError(t, clientgoscheme.AddToScheme(s))
	require.NoError(t, apiextensionsv1.AddToScheme(s))
	require.NoError(t, vynilv1.AddToScheme(s))
	return s
}

const jobTemplates = `
{{define "db/install"}}
apiVersion: batch/v1
kind: Job
metadata:
  name: {{ .OwnerName }}-install
  namespace: {{ .Namespace }}
spec:
  template:
    spec:
      restartPolicy: Never
      containers:
        - name: agent
          image: {{ .AgentImage }}
{{end}}
{{define "db/delete"}}
apiVersion: batch/v1
kind: Job
metadata:
  name: {{ .OwnerName }}-delete
  namespace: {{ .Namespace }}
spec:
  template:
    spec:
      restartPolicy: Never
      containers:
        - name: agent
          image: {{ .AgentImage }}
{{end}}
`

func newRenderer(t *testing.T) *jobtemplate.Renderer {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db.yaml.tmpl"), []byte(jobTemplates), 0o644))
	r, err := jobtemplate.NewRenderer(dir)
	require.NoError(t, err)
	return r
}

// autoSucceedJobs makes every Job Get appear already Succeeded, so
// jobs.AwaitCompletion returns immediately instead of polling for real.
func autoSucceedJobs() interceptor.Funcs {
	return interceptor.Funcs{
		Get: func(ctx context.Context, c client.WithWatch, key client.ObjectKey, obj client.Object, opts ...client.GetOption) error {
			if err := c.Get(ctx, key, obj, opts...); err != nil {
				return err
			}
			if job, ok := obj.(*batchv1.Job); ok {
				job.Status.Succeeded = 1
			}
			return nil
		},
	}
}

func TestApplyRequeuesWhenPackageNotCatalogued(t *testing.T) {
	svc := &vynilv1.ServiceInstance{
		ObjectMeta: metav1.ObjectMeta{Name: "svc1", Namespace: "ns1"},
		Spec:       vynilv1.ServiceInstanceSpec{InstanceSpec: vynilv1.InstanceSpec{Category: "db", Package: "postgres"}, TenantRef: "tenant1"},
	}
	c := fake.NewClientBuilder().WithScheme(testScheme(t)).WithObjects(svc).WithStatusSubresource(svc).Build()
	e := &Engine{Client: c, Cache: packagecache.New(), Renderer: newRenderer(t), Recorder: record.NewFakeRecorder(10)}

	result, err := e.Apply(context.Background(), &ServiceAdapter{Obj: svc})
	require.NoError(t, err)
	require.Equal(t, requeueInterval, result.RequeueAfter)
	require.False(t, conditions.IsTrue(svc.Status.Conditions, vynilv1.ConditionTypeAgentStarted))
}

func TestApplyRequeuesWhenJukeboxMissing(t *testing.T) {
	box := "nope"
	svc := &vynilv1.ServiceInstance{
		ObjectMeta: metav1.ObjectMeta{Name: "svc1", Namespace: "ns1"},
		Spec: vynilv1.ServiceInstanceSpec{
			InstanceSpec: vynilv1.InstanceSpec{Category: "db", Package: "postgres", JukeboxRef: &box},
			TenantRef:    "tenant1",
		},
	}
	c := fake.NewClientBuilder().WithScheme(testScheme(t)).WithObjects(svc).WithStatusSubresource(svc).Build()
	e := &Engine{Client: c, Cache: packagecache.New(), Renderer: newRenderer(t), Recorder: record.NewFakeRecorder(10)}

	result, err := e.Apply(context.Background(), &ServiceAdapter{Obj: svc})
	require.NoError(t, err)
	require.Equal(t, requeueInterval, result.RequeueAfter)
	found := false
	for _, c := range svc.Status.Conditions {
		if c.Type == vynilv1.ConditionTypeAgentStarted && c.Message == "JukeBox nope is missing" {
			found = true
		}
	}
	require.True(t, found)
}

func TestApplyInstallsAndMarksReady(t *testing.T) {
	svc := &vynilv1.ServiceInstance{
		ObjectMeta: metav1.ObjectMeta{Name: "svc1", Namespace: "ns1"},
		Spec:       vynilv1.ServiceInstanceSpec{InstanceSpec: vynilv1.InstanceSpec{Category: "db", Package: "postgres"}, TenantRef: "tenant1"},
	}
	cache := packagecache.New()
	cache.ReplaceForJukeBox("box", []vynilv1.PackageRecord{{
		Registry: "ghcr.io", Image: "vynil/postgres", Tag: "1.0.0", Digest: "sha256:abc",
		Metadata: vynilv1.PackageMetadata{Category: "db", Name: "postgres", Usage: vynilv1.PackageUsageService},
	}})

	c := fake.NewClientBuilder().
		WithScheme(testScheme(t)).
		WithObjects(svc).
		WithStatusSubresource(svc).
		WithInterceptorFuncs(autoSucceedJobs()).
		Build()
	e := &Engine{Client: c, Cache: cache, Renderer: newRenderer(t), Recorder: record.NewFakeRecorder(10)}

	result, err := e.Apply(context.Background(), &ServiceAdapter{Obj: svc})
	require.NoError(t, err)
	require.NotZero(t, result.RequeueAfter)
	require.Equal(t, "1.0.0", svc.Status.Tag)
	wantDigest, err := digest.Options(svc.Spec.Options)
	require.NoError(t, err)
	require.Equal(t, wantDigest, svc.Status.Digest)
	require.True(t, conditions.IsTrue(svc.Status.Conditions, vynilv1.ConditionTypeInstalled))
	require.True(t, conditions.IsTrue(svc.Status.Conditions, vynilv1.ConditionTypeReady))
}

func TestApplyForceReinstallClearsAnnotationAndReapplies(t *testing.T) {
	svc := &vynilv1.ServiceInstance{
		ObjectMeta: metav1.ObjectMeta{
			Name: "svc1", Namespace: "ns1",
			Annotations: map[string]string{"vynil.solidite.fr/force-reinstall": "true"},
		},
		Spec: vynilv1.ServiceInstanceSpec{InstanceSpec: vynilv1.InstanceSpec{Category: "db", Package: "postgres"}, TenantRef: "tenant1"},
	}
	wantDigest, err := digest.Options(svc.Spec.Options)
	require.NoError(t, err)
	svc.Status.Tag = "1.0.0"
	svc.Status.Digest = wantDigest
	conditions.Ok(&svc.Status.Conditions, svc.Generation, vynilv1.ConditionTypeInstalled, "already applied")

	cache := packagecache.New()
	cache.ReplaceForJukeBox("box", []vynilv1.PackageRecord{{
		Registry: "ghcr.io", Image: "vynil/postgres", Tag: "1.0.0", Digest: "sha256:abc",
		Metadata: vynilv1.PackageMetadata{Category: "db", Name: "postgres", Usage: vynilv1.PackageUsageService},
	}})

	c := fake.NewClientBuilder().
		WithScheme(testScheme(t)).
		WithObjects(svc).
		WithStatusSubresource(svc).
		WithInterceptorFuncs(autoSucceedJobs()).
		Build()
	e := &Engine{Client: c, Cache: cache, Renderer: newRenderer(t), Recorder: record.NewFakeRecorder(10)}

	result, err := e.Apply(context.Background(), &ServiceAdapter{Obj: svc})
	require.NoError(t, err)
	require.Equal(t, requeueInterval, result.RequeueAfter)
	require.True(t, conditions.IsTrue(svc.Status.Conditions, vynilv1.ConditionTypeReady))

	var fresh vynilv1.ServiceInstance
	require.NoError(t, c.Get(context.Background(), client.ObjectKey{Name: "svc1", Namespace: "ns1"}, &fresh))
	_, stillSet := fresh.Annotations["vynil.solidite.fr/force-reinstall"]
	require.False(t, stillSet)
}

func TestCleanupRefusesWhenChildrenExist(t *testing.T) {
	tenant := &vynilv1.TenantInstance{
		ObjectMeta: metav1.ObjectMeta{Name: "tenant1", Namespace: "ns1"},
		Spec:       vynilv1.TenantInstanceSpec{InstanceSpec: vynilv1.InstanceSpec{Category: "app", Package: "crm"}},
	}
	svc := &vynilv1.ServiceInstance{
		ObjectMeta: metav1.ObjectMeta{Name: "svc1", Namespace: "ns1"},
		Spec:       vynilv1.ServiceInstanceSpec{InstanceSpec: vynilv1.InstanceSpec{Category: "db", Package: "postgres"}, TenantRef: "tenant1"},
	}
	c := fake.NewClientBuilder().WithScheme(testScheme(t)).WithObjects(tenant, svc).Build()
	e := &Engine{Client: c, Cache: packagecache.New(), Renderer: newRenderer(t), Recorder: record.NewFakeRecorder(10)}

	err := e.Cleanup(context.Background(), &TenantAdapter{Obj: tenant})
	require.Error(t, err)
}

func TestCleanupAcksImmediatelyWhenPackageMissingAndNoState(t *testing.T) {
	svc := &vynilv1.ServiceInstance{
		ObjectMeta: metav1.ObjectMeta{Name: "svc1", Namespace: "ns1"},
		Spec:       vynilv1.ServiceInstanceSpec{InstanceSpec: vynilv1.InstanceSpec{Category: "db", Package: "postgres"}, TenantRef: "tenant1"},
	}
	c := fake.NewClientBuilder().WithScheme(testScheme(t)).WithObjects(svc).Build()
	e := &Engine{Client: c, Cache: packagecache.New(), Renderer: newRenderer(t), Recorder: record.NewFakeRecorder(10)}

	err := e.Cleanup(context.Background(), &ServiceAdapter{Obj: svc})
	require.NoError(t, err)

	var jobs batchv1.JobList
	require.NoError(t, c.List(context.Background(), &jobs))
	require.Empty(t, jobs.Items)
}

func TestCleanupRefusesWhenPackageMissingButStatePending(t *testing.T) {
	state := "nonempty"
	svc := &vynilv1.ServiceInstance{
		ObjectMeta: metav1.ObjectMeta{Name: "svc1", Namespace: "ns1"},
		Spec:       vynilv1.ServiceInstanceSpec{InstanceSpec: vynilv1.InstanceSpec{Category: "db", Package: "postgres"}, TenantRef: "tenant1"},
		Status: vynilv1.ServiceInstanceStatus{
			InstanceStatus: vynilv1.InstanceStatus{TFState: &state},
		},
	}
	c := fake.NewClientBuilder().WithScheme(testScheme(t)).WithObjects(svc).Build()
	e := &Engine{Client: c, Cache: packagecache.New(), Renderer: newRenderer(t), Recorder: record.NewFakeRecorder(10)}

	err := e.Cleanup(context.Background(), &ServiceAdapter{Obj: svc})
	require.Error(t, err)
}

func TestCleanupRunsDeleteJobWhenPackageStillCatalogued(t *testing.T) {
	svc := &vynilv1.ServiceInstance{
		ObjectMeta: metav1.ObjectMeta{Name: "svc1", Namespace: "ns1"},
		Spec:       vynilv1.ServiceInstanceSpec{InstanceSpec: vynilv1.InstanceSpec{Category: "db", Package: "postgres"}, TenantRef: "tenant1"},
	}
	cache := packagecache.New()
	cache.ReplaceForJukeBox("box", []vynilv1.PackageRecord{{
		Registry: "ghcr.io", Image: "vynil/postgres", Tag: "1.0.0", Digest: "sha256:abc",
		Metadata: vynilv1.PackageMetadata{Category: "db", Name: "postgres", Usage: vynilv1.PackageUsageService},
	}})
	c := fake.NewClientBuilder().
		WithScheme(testScheme(t)).
		WithObjects(svc).
		WithStatusSubresource(svc).
		WithInterceptorFuncs(autoSucceedJobs()).
		Build()
	e := &Engine{Client: c, Cache: cache, Renderer: newRenderer(t), Recorder: record.NewFakeRecorder(10)}

	require.NoError(t, e.Cleanup(context.Background(), &ServiceAdapter{Obj: svc}))

	var jobs batchv1.JobList
	require.NoError(t, c.List(context.Background(), &jobs))
	require.Empty(t, jobs.Items)
}
