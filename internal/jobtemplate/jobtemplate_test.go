package jobtemplate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const installTemplate = `apiVersion: batch/v1
kind: Job
metadata:
  name: {{ .OwnerName }}-install
  namespace: {{ .Namespace }}
  labels:
    vynil.solidite.fr/action: {{ .Action }}
spec:
  template:
    spec:
      restartPolicy: Never
      containers:
        - name: agent
          image: {{ .AgentImage }}
          args:
            - {{ .Action }}
            - {{ .Category }}/{{ .Package }}:{{ .Tag | quote }}
`

func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestRenderJob(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "db_install.yaml.tmpl", "{{define \"db/install\"}}"+installTemplate+"{{end}}")

	r, err := NewRenderer(dir)
	require.NoError(t, err)

	job, err := r.RenderJob(InstallTemplateName("db"), Values{
		Namespace:  "vynil-system",
		OwnerName:  "mydb",
		Category:   "db",
		Package:    "postgres",
		Tag:        "1.2.3",
		Action:     "install",
		AgentImage: "ghcr.io/sebt3/vynil-agent:latest",
	})
	require.NoError(t, err)
	require.Equal(t, "mydb-install", job.Name)
	require.Equal(t, "vynil-system", job.Namespace)
	require.Len(t, job.Spec.Template.Spec.Containers, 1)
	require.Equal(t, "ghcr.io/sebt3/vynil-agent:latest", job.Spec.Template.Spec.Containers[0].Image)
}

func TestTemplateNameHelpers(t *testing.T) {
	require.Equal(t, "db/install", InstallTemplateName("db"))
	require.Equal(t, "db/delete", DeleteTemplateName("db"))
}
