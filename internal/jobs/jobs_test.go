package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
)

func testScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	s := runtime.NewScheme()
	require.NoError(t, clientgoscheme.AddToScheme(s))
	return s
}

func newJob(namespace, name string) *batchv1.Job {
	return &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{Namespace: namespace, Name: name},
		Spec: batchv1.JobSpec{
			Template: corev1.PodTemplateSpec{
				Spec: corev1.PodSpec{
					RestartPolicy: corev1.RestartPolicyNever,
					Containers: []corev1.Container{
						{Name: "worker", Image: "busybox"},
					},
				},
			},
		},
	}
}

func TestUpsertCreatesNewJob(t *testing.T) {
	c := fake.NewClientBuilder().WithScheme(testScheme(t)).Build()
	job := newJob("ns1", "install-job")

	require.NoError(t, Upsert(context.Background(), c, job))

	var got batchv1.Job
	require.NoError(t, c.Get(context.Background(), types.NamespacedName{Namespace: "ns1", Name: "install-job"}, &got))
}

func TestAwaitCompletionSucceeded(t *testing.T) {
	job := newJob("ns1", "install-job")
	job.Status.Succeeded = 1
	c := fake.NewClientBuilder().WithScheme(testScheme(t)).WithObjects(job).WithStatusSubresource(job).Build()

	require.NoError(t, c.Status().Update(context.Background(), job))

	outcome, err := AwaitCompletion(context.Background(), c, "ns1", "install-job")
	require.NoError(t, err)
	require.Equal(t, OutcomeSucceeded, outcome)
}

func TestAwaitCompletionFailed(t *testing.T) {
	job := newJob("ns1", "install-job")
	job.Status.Failed = 1
	job.Status.Conditions = []batchv1.JobCondition{
		{Type: batchv1.JobFailed, Status: corev1.ConditionTrue},
	}
	c := fake.NewClientBuilder().WithScheme(testScheme(t)).WithObjects(job).WithStatusSubresource(job).Build()
	require.NoError(t, c.Status().Update(context.Background(), job))

	_, err := AwaitCompletion(context.Background(), c, "ns1", "install-job")
	require.Error(t, err)
}

func TestDeleteAndAwaitAlreadyAbsent(t *testing.T) {
	c := fake.NewClientBuilder().WithScheme(testScheme(t)).Build()
	require.NoError(t, DeleteAndAwait(context.Background(), c, "ns1", "missing-job"))
}

func TestAwaitCompletionTimesOut(t *testing.T) {
	job := newJob("ns1", "install-job")
	c := fake.NewClientBuilder().WithScheme(testScheme(t)).WithObjects(job).Build()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := AwaitCompletion(ctx, c, "ns1", "install-job")
	require.Error(t, err)
}
