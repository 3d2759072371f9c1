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

// PolicySetSpec is the desired state of a PolicySet record: one Cedar
// policy, keyed within its schema's composite set by the record name
// (§4.6).
type PolicySetSpec struct {
	Schema string `json:"schema"`
	Text   string `json:"text"`
	Active bool   `json:"active"`
}

// PolicySetStatus is the observed state of a PolicySet record.
type PolicySetStatus struct {
	ObservedGeneration int64        `json:"observedGeneration,omitempty"`
	LastUpdateTime     *metav1.Time `json:"lastUpdateTime,omitempty"`
}

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status

// PolicySet is the Schema for the policysets API.
type PolicySet struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   PolicySetSpec   `json:"spec,omitempty"`
	Status PolicySetStatus `json:"status,omitempty"`
}

//+kubebuilder:object:root=true

// PolicySetList contains a list of PolicySet.
type PolicySetList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []PolicySet `json:"items"`
}

// DeepCopyInto copies the receiver into out via a JSON round trip (see
// ActionSet.DeepCopyInto for the rationale).
func (in *PolicySet) DeepCopyInto(out *PolicySet) {
	data, err := json.Marshal(in)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		panic(err)
	}
}

// DeepCopy creates a deep copy of PolicySet.
func (in *PolicySet) DeepCopy() *PolicySet {
	if in == nil {
		return nil
	}
	out := new(PolicySet)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *PolicySet) DeepCopyObject() runtime.Object {
	return in.DeepCopy()
}

// GetActive implements store.ActiveObject.
func (in *PolicySet) GetActive() bool { return in.Spec.Active }

// SetActive implements store.ActiveObject.
func (in *PolicySet) SetActive(active bool) { in.Spec.Active = active }

// DeepCopyInto copies the receiver into out.
func (in *PolicySetList) DeepCopyInto(out *PolicySetList) {
	data, err := json.Marshal(in)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		panic(err)
	}
}

// DeepCopy creates a deep copy of PolicySetList.
func (in *PolicySetList) DeepCopy() *PolicySetList {
	if in == nil {
		return nil
	}
	out := new(PolicySetList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *PolicySetList) DeepCopyObject() runtime.Object {
	return in.DeepCopy()
}

func init() {
	SchemeBuilder.Register(&PolicySet{}, &PolicySetList{})
}
