/*
Copyright 2022.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"flag"
	"os"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	"k8s.io/client-go/kubernetes"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/klog/v2"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	vynilv1 "github.com/sebt3/vynil/api/v1"
	"github.com/sebt3/vynil/internal/instance"
	"github.com/sebt3/vynil/internal/jobtemplate"
	"github.com/sebt3/vynil/internal/jukebox"
	"github.com/sebt3/vynil/internal/packagecache"
	"github.com/sebt3/vynil/internal/registry"
)

var (
	scheme   = runtime.NewScheme()
	setupLog = ctrl.Log.WithName("setup")
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(apiextensionsv1.AddToScheme(scheme))
	utilruntime.Must(batchv1.AddToScheme(scheme))
	utilruntime.Must(corev1.AddToScheme(scheme))
	utilruntime.Must(vynilv1.AddToScheme(scheme))
}

func main() {
	var metricsAddr, probeAddr, templateDir string
	var enableLeaderElection bool
	flag.StringVar(&metricsAddr, "metrics-bind-address", ":8080", "The address the metrics endpoint binds to.")
	flag.StringVar(&probeAddr, "health-probe-bind-address", ":8081", "The address the probe endpoint binds to.")
	flag.BoolVar(&enableLeaderElection, "leader-elect", false, "Enable leader election for controller manager.")
	flag.StringVar(&templateDir, "template-dir", envOr("CONTROLLER_BASE_DIR", "/etc/vynil/templates"), "Directory of worker job templates.")
	flag.Parse()

	ctrl.SetLogger(klog.NewKlogr())

	mgr, err := ctrl.NewManager(ctrl.GetConfigOrDie(), ctrl.Options{
		Scheme:                 scheme,
		Metrics:                metricsserver.Options{BindAddress: metricsAddr},
		HealthProbeBindAddress: probeAddr,
		LeaderElection:         enableLeaderElection,
		LeaderElectionID:       "vynil-operator-leader.vynil.solidite.fr",
	})
	if err != nil {
		setupLog.Error(err, "unable to start manager")
		os.Exit(1)
	}

	renderer, err := jobtemplate.NewRenderer(templateDir)
	if err != nil {
		setupLog.Error(err, "unable to load worker job templates", "dir", templateDir)
		os.Exit(1)
	}

	cache := packagecache.New()
	clientset, err := kubernetes.NewForConfig(mgr.GetConfig())
	if err != nil {
		setupLog.Error(err, "unable to build kubernetes clientset")
		os.Exit(1)
	}

	base := instance.BaseContext{
		Namespace:     envOr("VYNIL_NAMESPACE", "vynil-system"),
		AgentImage:    envOr("AGENT_IMAGE", "ghcr.io/sebt3/vynil-agent:latest"),
		AgentAccount:  envOr("AGENT_ACCOUNT", "vynil-agent"),
		AgentLogLevel: envOr("AGENT_LOG_LEVEL", "info"),
	}

	jukeboxReconciler := &jukebox.Reconciler{
		Client:     mgr.GetClient(),
		Cache:      cache,
		Clientset:  clientset,
		Recorder:   mgr.GetEventRecorderFor("vynil-jukebox"),
		RegistryFn: registry.NewClient,
	}
	if err := jukeboxReconciler.SetupWithManager(mgr); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "JukeBox")
		os.Exit(1)
	}

	engine := &instance.Engine{
		Client:   mgr.GetClient(),
		Cache:    cache,
		Renderer: renderer,
		Recorder: mgr.GetEventRecorderFor("vynil-instance"),
		Base:     base,
	}

	if err := (&instance.SystemReconciler{Engine: engine}).SetupWithManager(mgr); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "SystemInstance")
		os.Exit(1)
	}
	if err := (&instance.TenantReconciler{Engine: engine}).SetupWithManager(mgr); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "TenantInstance")
		os.Exit(1)
	}
	if err := (&instance.ServiceReconciler{Engine: engine}).SetupWithManager(mgr); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "ServiceInstance")
		os.Exit(1)
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up health check")
		os.Exit(1)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up ready check")
		os.Exit(1)
	}

	setupLog.Info("starting manager")
	if err := mgr.Start(ctrl.SetupSignalHandler()); err != nil {
		setupLog.Error(err, "problem running manager")
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
