/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

// cmd/main.go wires every component built in internal/* into a running
// process (§4.12, §6): load configuration, build the logger and otel
// providers, connect to the backing Kubernetes cluster, construct the
// record stores and their reflectors, build the schema-scoped indices and
// the validation pipeline, and finally serve the control plane over plain
// HTTP (the edge proxy in front of this service terminates TLS, §1).
package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"sigs.k8s.io/controller-runtime/pkg/client"

	v1 "github.com/sneaksanddata/boxer-validator/api/v1"
	"github.com/sneaksanddata/boxer-validator/config"
	"github.com/sneaksanddata/boxer-validator/internal/audit"
	"github.com/sneaksanddata/boxer-validator/internal/httpapi"
	"github.com/sneaksanddata/boxer-validator/internal/index"
	"github.com/sneaksanddata/boxer-validator/internal/middleware"
	"github.com/sneaksanddata/boxer-validator/internal/model"
	"github.com/sneaksanddata/boxer-validator/internal/observability"
	"github.com/sneaksanddata/boxer-validator/internal/openapi"
	"github.com/sneaksanddata/boxer-validator/internal/policyindex"
	"github.com/sneaksanddata/boxer-validator/internal/reflector"
	"github.com/sneaksanddata/boxer-validator/internal/schemaprovider"
	"github.com/sneaksanddata/boxer-validator/internal/server"
	"github.com/sneaksanddata/boxer-validator/internal/store"
	"github.com/sneaksanddata/boxer-validator/internal/token"
	"github.com/sneaksanddata/boxer-validator/internal/validation"
)

func main() {
	configPath := flag.String("config", "settings.toml", "path to the TOML configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "boxer-validator: fatal:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := observability.NewLogger(observability.LoggerConfig{
		Level:    os.Getenv("BOXER_VALIDATOR__LOG__LEVEL"),
		Format:   os.Getenv("BOXER_VALIDATOR__LOG__FORMAT"),
		Instance: cfg.InstanceName,
	})
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := observability.NewProviders(ctx, observability.Settings{
		InstanceName:   cfg.InstanceName,
		LogsEnabled:    cfg.OpenTelemetry.Logs.Enabled,
		MetricsEnabled: cfg.OpenTelemetry.Metrics.Enabled,
		TracesEnabled:  cfg.OpenTelemetry.Traces.Enabled,
		Endpoint:       cfg.OpenTelemetry.Metrics.Endpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to build opentelemetry providers: %w", err)
	}
	defer providers.Shutdown(context.Background()) //nolint:errcheck

	restConfig, err := buildRestConfig(cfg.Backend.Kubernetes)
	if err != nil {
		return fmt.Errorf("failed to build kubernetes client configuration: %w", err)
	}

	scheme := clientgoscheme.Scheme
	if err := v1.AddToScheme(scheme); err != nil {
		return fmt.Errorf("failed to register api types: %w", err)
	}

	k8sClient, err := client.New(restConfig, client.Options{Scheme: scheme})
	if err != nil {
		return fmt.Errorf("failed to construct kubernetes client: %w", err)
	}

	namespace := cfg.Backend.Kubernetes.Namespace
	ownerLabelKey := cfg.Backend.Kubernetes.ResourceOwnerLabel
	ownerLabelValue := cfg.InstanceName
	operationTimeout := cfg.Backend.Kubernetes.OperationTimeout

	actionStore := store.New[*v1.ActionSet](k8sClient, namespace, ownerLabelKey, ownerLabelValue, operationTimeout,
		func() *v1.ActionSet { return &v1.ActionSet{} })
	resourceStore := store.New[*v1.ResourceSet](k8sClient, namespace, ownerLabelKey, ownerLabelValue, operationTimeout,
		func() *v1.ResourceSet { return &v1.ResourceSet{} })
	policyStore := store.New[*v1.PolicySet](k8sClient, namespace, ownerLabelKey, ownerLabelValue, operationTimeout,
		func() *v1.PolicySet { return &v1.PolicySet{} })
	schemaStore := store.New[*v1.Schema](k8sClient, namespace, ownerLabelKey, ownerLabelValue, operationTimeout,
		func() *v1.Schema { return &v1.Schema{} })

	actions := index.New(logger.Named("index.actions"))
	resources := index.New(logger.Named("index.resources"))
	policies := policyindex.New(logger.Named("policyindex"))
	schemaRegistry := schemaprovider.NewMemoryRegistry()

	reflectorCfg := reflector.Config{
		RestConfig:      restConfig,
		Scheme:          scheme,
		Namespace:       namespace,
		OwnerLabelKey:   ownerLabelKey,
		OwnerLabelValue: ownerLabelValue,
	}

	reflectors, err := startReflectors(ctx, reflectorCfg, logger, actions, resources, policies, schemaRegistry)
	if err != nil {
		return fmt.Errorf("failed to start reflectors: %w", err)
	}
	defer func() {
		for _, r := range reflectors {
			r.Stop()
		}
	}()

	keys, err := decodeTokenKeys(cfg.TokenSettings.Keys)
	if err != nil {
		return fmt.Errorf("failed to decode token_settings.keys: %w", err)
	}
	authenticator := token.New(token.Config{
		Keys:      keys,
		Issuers:   cfg.TokenSettings.Issuer,
		Audiences: cfg.TokenSettings.Audience,
	}, logger.Named("token"))

	schemas := schemaprovider.New(schemaRegistry, logger.Named("schemaprovider"))

	sink := buildAuditSink(providers, logger)

	meter := providers.Meter.Meter("boxer-validator")
	pipeline, err := validation.New(authenticator, schemas, actions, resources, policies, sink, logger.Named("validation"), meter)
	if err != nil {
		return fmt.Errorf("failed to build validation pipeline: %w", err)
	}

	handlers := server.Handlers{
		Schema:      httpapi.NewSchemaHandler(schemaStore, schemaRegistry),
		ActionSet:   httpapi.NewActionSetHandler(actionStore, actions),
		ResourceSet: httpapi.NewResourceSetHandler(resourceStore, resources),
		PolicySet:   httpapi.NewPolicySetHandler(policyStore, policies),
		Review:      httpapi.NewReviewHandler(pipeline),
		OpenAPI:     openapi.NewHandler(openapi.Document(cfg.InstanceName)),
		Auth: middleware.AuthConfig{
			Authenticator:   authenticator,
			DebugBypassPath: "/api/v1/token/review",
			IssuerDebug:     config.IssuerDebug(),
		},
		ReadyFunc: readyFunc(reflectors),
	}

	router := server.Build(handlers)

	logger.Info("starting boxer-validator", zap.String("listen_address", cfg.ListenAddress))
	if err := server.Listen(router, cfg.ListenAddress); err != nil {
		return fmt.Errorf("server exited with error: %w", err)
	}
	return nil
}

// buildRestConfig selects the single effective connection mode among
// backend.kubernetes.{kubeconfig|exec|in_cluster} (§6). "exec" defers to
// the default kubeconfig loading rules, which already resolve exec-plugin
// credential providers embedded in the referenced kubeconfig.
func buildRestConfig(cfg config.KubernetesConfig) (*rest.Config, error) {
	switch {
	case cfg.InCluster:
		return rest.InClusterConfig()
	case cfg.Kubeconfig != "":
		return clientcmd.BuildConfigFromFlags("", cfg.Kubeconfig)
	case cfg.Exec:
		loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
		return clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, &clientcmd.ConfigOverrides{}).ClientConfig()
	default:
		return nil, fmt.Errorf("no effective backend.kubernetes connection mode")
	}
}

func decodeTokenKeys(raw map[string]string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(raw))
	for kid, encoded := range raw {
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", kid, err)
		}
		out[kid] = decoded
	}
	return out, nil
}

func buildAuditSink(providers *observability.Providers, logger *zap.Logger) audit.Sink {
	sinks := []audit.Sink{audit.NewLogSink(logger)}
	if metricsSink, err := audit.NewMetricsSink(providers.Meter.Meter("boxer-validator.audit")); err == nil {
		sinks = append(sinks, metricsSink)
	} else {
		logger.Warn("failed to build audit metrics sink", zap.Error(err))
	}
	sinks = append(sinks, audit.NewOtelAuditSink(providers.Logger))
	return audit.NewMultiSink(sinks...)
}

// startReflectors constructs and starts one reflector per record kind,
// each feeding its observed updates into the matching in-memory index
// (§4.3, §4.4, §4.6, §4.8).
func startReflectors(
	ctx context.Context,
	cfg reflector.Config,
	logger *zap.Logger,
	actions *index.SchemaIndex,
	resources *index.SchemaIndex,
	policies *policyindex.PolicyIndex,
	schemaRegistry interface{ Apply(model.Schema) },
) ([]stoppable, error) {
	actionReflector, err := reflector.New[*v1.ActionSet](cfg, "ActionSet",
		func() *v1.ActionSet { return &v1.ActionSet{} },
		reflector.ResourceUpdateHandlerFunc[*v1.ActionSet](func(_ context.Context, name string, obj *v1.ActionSet, deleted bool) error {
			id := store.IDFromObjectName(obj.Spec.Schema, name)
			rec, convErr := store.ObjectToActionSet(id, obj)
			if convErr != nil {
				return convErr
			}
			if deleted {
				rec.Active = false
			}
			actions.Apply(index.ActionSetUpdate(rec))
			return nil
		}),
		logger.Named("reflector.actionset"))
	if err != nil {
		return nil, err
	}

	resourceReflector, err := reflector.New[*v1.ResourceSet](cfg, "ResourceSet",
		func() *v1.ResourceSet { return &v1.ResourceSet{} },
		reflector.ResourceUpdateHandlerFunc[*v1.ResourceSet](func(_ context.Context, name string, obj *v1.ResourceSet, deleted bool) error {
			id := store.IDFromObjectName(obj.Spec.Schema, name)
			rec, convErr := store.ObjectToResourceSet(id, obj)
			if convErr != nil {
				return convErr
			}
			if deleted {
				rec.Active = false
			}
			resources.Apply(index.ResourceSetUpdate(rec))
			return nil
		}),
		logger.Named("reflector.resourceset"))
	if err != nil {
		return nil, err
	}

	policyReflector, err := reflector.New[*v1.PolicySet](cfg, "PolicySet",
		func() *v1.PolicySet { return &v1.PolicySet{} },
		reflector.ResourceUpdateHandlerFunc[*v1.PolicySet](func(_ context.Context, name string, obj *v1.PolicySet, deleted bool) error {
			id := store.IDFromObjectName(obj.Spec.Schema, name)
			rec := store.ObjectToPolicyRecord(id, obj)
			if deleted {
				rec.Active = false
			}
			policies.Apply(rec)
			return nil
		}),
		logger.Named("reflector.policyset"))
	if err != nil {
		return nil, err
	}

	schemaReflector, err := reflector.New[*v1.Schema](cfg, "Schema",
		func() *v1.Schema { return &v1.Schema{} },
		reflector.ResourceUpdateHandlerFunc[*v1.Schema](func(_ context.Context, name string, obj *v1.Schema, deleted bool) error {
			rec := store.ObjectToSchema(name, obj)
			if deleted {
				rec.Active = false
			}
			schemaRegistry.Apply(rec)
			return nil
		}),
		logger.Named("reflector.schema"))
	if err != nil {
		return nil, err
	}

	all := []stoppable{actionReflector, resourceReflector, policyReflector, schemaReflector}
	for _, r := range all {
		if err := r.Start(ctx); err != nil {
			return nil, err
		}
	}

	readyCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	for _, r := range all {
		if err := r.Ready(readyCtx); err != nil {
			logger.Warn("reflector did not become ready within the startup deadline; continuing, relying on eventual convergence")
		}
	}

	return all, nil
}

// stoppable is the subset of reflector.Reflector[T] startReflectors needs
// without naming its type parameter, so the four kinds' reflectors can
// share one slice.
type stoppable interface {
	Start(ctx context.Context) error
	Ready(ctx context.Context) error
	Stop()
}

func readyFunc(reflectors []stoppable) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		for _, r := range reflectors {
			if err := r.Ready(ctx); err != nil {
				c.Status(503)
				return
			}
		}
		c.Status(200)
	}
}
