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

// SchemaSpec is the desired state of a Schema record: a named JSON policy
// schema fragment (§3, §4.8). Unlike the other three record kinds a Schema
// is not itself scoped by validator_schema_id - its object name IS the
// validator_schema_id (§6, schema registry singleton per id).
type SchemaSpec struct {
	Fragment string `json:"fragment"`
	Active   bool   `json:"active"`
}

// SchemaStatus is the observed state of a Schema record.
type SchemaStatus struct {
	ObservedGeneration int64        `json:"observedGeneration,omitempty"`
	LastUpdateTime     *metav1.Time `json:"lastUpdateTime,omitempty"`
}

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status

// Schema is the Schema (sic) for the schemas API: a stored policy-schema
// fragment keyed by validator schema id.
type Schema struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   SchemaSpec   `json:"spec,omitempty"`
	Status SchemaStatus `json:"status,omitempty"`
}

//+kubebuilder:object:root=true

// SchemaList contains a list of Schema.
type SchemaList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Schema `json:"items"`
}

// DeepCopyInto copies the receiver into out via a JSON round trip (see
// ActionSet.DeepCopyInto for the rationale).
func (in *Schema) DeepCopyInto(out *Schema) {
	data, err := json.Marshal(in)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		panic(err)
	}
}

// DeepCopy creates a deep copy of Schema.
func (in *Schema) DeepCopy() *Schema {
	if in == nil {
		return nil
	}
	out := new(Schema)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *Schema) DeepCopyObject() runtime.Object {
	return in.DeepCopy()
}

// GetActive implements store.ActiveObject.
func (in *Schema) GetActive() bool { return in.Spec.Active }

// SetActive implements store.ActiveObject.
func (in *Schema) SetActive(active bool) { in.Spec.Active = active }

// DeepCopyInto copies the receiver into out.
func (in *SchemaList) DeepCopyInto(out *SchemaList) {
	data, err := json.Marshal(in)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		panic(err)
	}
}

// DeepCopy creates a deep copy of SchemaList.
func (in *SchemaList) DeepCopy() *SchemaList {
	if in == nil {
		return nil
	}
	out := new(SchemaList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *SchemaList) DeepCopyObject() runtime.Object {
	return in.DeepCopy()
}

func init() {
	SchemeBuilder.Register(&Schema{}, &SchemaList{})
}
