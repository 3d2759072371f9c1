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

package reflector

import (
	"context"

	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/client-go/tools/cache"

	"github.com/sneaksanddata/boxer-validator/internal/store"
)

func mustParseSelector(raw string) labels.Selector {
	sel, err := labels.Parse(raw)
	if err != nil {
		// The selector is built from the configured owner-mark label, not
		// user input, so a parse failure here is a configuration defect.
		panic(err)
	}
	return sel
}

// newHandlerFuncs adapts the generic Reflector to client-go's untyped
// ResourceEventHandlerFuncs, converting each event into a HandleUpdate call
// and swallowing handler errors into a log line (§4.4: one bad record must
// never interrupt the watch).
func newHandlerFuncs[T store.ActiveObject](ctx context.Context, r *Reflector[T]) cache.ResourceEventHandlerFuncs {
	dispatch := func(obj interface{}, deleted bool) {
		typed, ok := obj.(T)
		if !ok {
			if tomb, isTomb := obj.(cache.DeletedFinalStateUnknown); isTomb {
				typed, ok = tomb.Obj.(T)
			}
			if !ok {
				r.logger.Warn("reflector received object of unexpected type")
				return
			}
		}
		name := typed.GetName()
		if err := r.handler.HandleUpdate(ctx, name, typed, deleted); err != nil {
			r.logger.Warn("resource update handler failed", zap.String("name", name), zap.Error(err))
		}
	}

	return cache.ResourceEventHandlerFuncs{
		AddFunc:    func(obj interface{}) { dispatch(obj, false) },
		UpdateFunc: func(_, newObj interface{}) { dispatch(newObj, false) },
		DeleteFunc: func(obj interface{}) { dispatch(obj, true) },
	}
}
