package versioninfo

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
)

const (
	// BranchFieldName is the key holding the selected branch in the version document.
	BranchFieldName = "zfs_branch"

	prefetchNotObjectMessageConstant = "prefetch output must be a JSON object"
)

var errPrefetchNotObject = errors.New(prefetchNotObjectMessageConstant)

// Record is the merged version document: the selected branch plus every prefetch field.
type Record struct {
	Branch   string
	Prefetch json.RawMessage
}

// MarshalJSON renders zfs_branch first followed by the prefetch fields in key order.
// A zfs_branch key inside the prefetch output is replaced by Branch.
func (record Record) MarshalJSON() ([]byte, error) {
	prefetchFields := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(record.Prefetch)) > 0 {
		if decodeError := json.Unmarshal(record.Prefetch, &prefetchFields); decodeError != nil {
			return nil, decodeError
		}
		if prefetchFields == nil {
			return nil, errPrefetchNotObject
		}
	}
	delete(prefetchFields, BranchFieldName)

	fieldNames := make([]string, 0, len(prefetchFields))
	for fieldName := range prefetchFields {
		fieldNames = append(fieldNames, fieldName)
	}
	sort.Strings(fieldNames)

	var buffer bytes.Buffer
	buffer.WriteByte('{')
	if writeError := writeField(&buffer, BranchFieldName, record.Branch); writeError != nil {
		return nil, writeError
	}
	for _, fieldName := range fieldNames {
		buffer.WriteByte(',')
		if writeError := writeField(&buffer, fieldName, prefetchFields[fieldName]); writeError != nil {
			return nil, writeError
		}
	}
	buffer.WriteByte('}')

	return buffer.Bytes(), nil
}

func writeField(buffer *bytes.Buffer, fieldName string, value any) error {
	encodedName, nameError := json.Marshal(fieldName)
	if nameError != nil {
		return nameError
	}
	encodedValue, valueError := json.Marshal(value)
	if valueError != nil {
		return valueError
	}
	buffer.Write(encodedName)
	buffer.WriteByte(':')
	buffer.Write(encodedValue)
	return nil
}
