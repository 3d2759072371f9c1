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

// ActionRoute is one action route table entry.
type ActionRoute struct {
	Method    string `json:"method"`
	Template  string `json:"template"`
	ActionUid string `json:"actionUid"`
}

// ActionSetSpec is the desired state of an ActionSet record.
type ActionSetSpec struct {
	Schema   string        `json:"schema"`
	Hostname string        `json:"hostname"`
	Routes   []ActionRoute `json:"routes,omitempty"`
	// Active is the soft-delete bit (§3): false marks this record a
	// tombstone without removing the object from storage.
	Active bool `json:"active"`
}

// ActionSetStatus is the observed state of an ActionSet record.
type ActionSetStatus struct {
	ObservedGeneration int64        `json:"observedGeneration,omitempty"`
	LastUpdateTime     *metav1.Time `json:"lastUpdateTime,omitempty"`
}

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status

// ActionSet is the Schema for the actionsets API.
type ActionSet struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   ActionSetSpec   `json:"spec,omitempty"`
	Status ActionSetStatus `json:"status,omitempty"`
}

//+kubebuilder:object:root=true

// ActionSetList contains a list of ActionSet.
type ActionSetList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []ActionSet `json:"items"`
}

// DeepCopyInto copies the receiver into out via a JSON round trip, the
// same strategy the teacher's APIConfigurationWrapper uses for its
// externally-defined payload type.
func (in *ActionSet) DeepCopyInto(out *ActionSet) {
	data, err := json.Marshal(in)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		panic(err)
	}
}

// DeepCopy creates a deep copy of ActionSet.
func (in *ActionSet) DeepCopy() *ActionSet {
	if in == nil {
		return nil
	}
	out := new(ActionSet)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *ActionSet) DeepCopyObject() runtime.Object {
	return in.DeepCopy()
}

// GetActive implements store.ActiveObject.
func (in *ActionSet) GetActive() bool { return in.Spec.Active }

// SetActive implements store.ActiveObject.
func (in *ActionSet) SetActive(active bool) { in.Spec.Active = active }

// DeepCopyInto copies the receiver into out.
func (in *ActionSetList) DeepCopyInto(out *ActionSetList) {
	data, err := json.Marshal(in)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		panic(err)
	}
}

// DeepCopy creates a deep copy of ActionSetList.
func (in *ActionSetList) DeepCopy() *ActionSetList {
	if in == nil {
		return nil
	}
	out := new(ActionSetList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *ActionSetList) DeepCopyObject() runtime.Object {
	return in.DeepCopy()
}

func init() {
	SchemeBuilder.Register(&ActionSet{}, &ActionSetList{})
}
