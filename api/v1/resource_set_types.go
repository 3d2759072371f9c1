/*
Copyright 2025.

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

package v1

import (
	"encoding/json"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// ResourceRoute is one resource route table entry. Unlike ActionRoute it
// carries no method: resource lookup is verb-agnostic (§4.2).
type ResourceRoute struct {
	Template    string `json:"template"`
	ResourceUid string `json:"resourceUid"`
}

// ResourceSetSpec is the desired state of a ResourceSet record.
type ResourceSetSpec struct {
	Schema   string          `json:"schema"`
	Hostname string          `json:"hostname"`
	Routes   []ResourceRoute `json:"routes,omitempty"`
	Active   bool            `json:"active"`
}

// ResourceSetStatus is the observed state of a ResourceSet record.
type ResourceSetStatus struct {
	ObservedGeneration int64        `json:"observedGeneration,omitempty"`
	LastUpdateTime     *metav1.Time `json:"lastUpdateTime,omitempty"`
}

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status

// ResourceSet is the Schema for the resourcesets API.
type ResourceSet struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   ResourceSetSpec   `json:"spec,omitempty"`
	Status ResourceSetStatus `json:"status,omitempty"`
}

//+kubebuilder:object:root=true

// ResourceSetList contains a list of ResourceSet.
type ResourceSetList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []ResourceSet `json:"items"`
}

// DeepCopyInto copies the receiver into out via a JSON round trip (see
// ActionSet.DeepCopyInto for the rationale).
func (in *ResourceSet) DeepCopyInto(out *ResourceSet) {
	data, err := json.Marshal(in)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		panic(err)
	}
}

// DeepCopy creates a deep copy of ResourceSet.
func (in *ResourceSet) DeepCopy() *ResourceSet {
	if in == nil {
		return nil
	}
	out := new(ResourceSet)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *ResourceSet) DeepCopyObject() runtime.Object {
	return in.DeepCopy()
}

// GetActive implements store.ActiveObject.
func (in *ResourceSet) GetActive() bool { return in.Spec.Active }

// SetActive implements store.ActiveObject.
func (in *ResourceSet) SetActive(active bool) { in.Spec.Active = active }

// DeepCopyInto copies the receiver into out.
func (in *ResourceSetList) DeepCopyInto(out *ResourceSetList) {
	data, err := json.Marshal(in)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		panic(err)
	}
}

// DeepCopy creates a deep copy of ResourceSetList.
func (in *ResourceSetList) DeepCopy() *ResourceSetList {
	if in == nil {
		return nil
	}
	out := new(ResourceSetList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *ResourceSetList) DeepCopyObject() runtime.Object {
	return in.DeepCopy()
}

func init() {
	SchemeBuilder.Register(&ResourceSet{}, &ResourceSetList{})
}
