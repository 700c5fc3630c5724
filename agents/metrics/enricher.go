/*
Copyright 2025 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// AttributeEnricher adds contextual attributes to metric records without
// coupling proposer backends to specific callers. It receives the base
// attributes (model, tool, verdict) and returns the enriched set; the worker
// installs one that appends repository and change-request dimensions.
type AttributeEnricher func(ctx context.Context, baseAttrs []attribute.KeyValue) []attribute.KeyValue
