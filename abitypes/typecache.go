// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package abitypes

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pk910/dynamic-abi/abiutils"
)

// TypeCache manages cached type descriptors parsed from textual type names.
//
// Contracts, enums and structs referenced by name without an explicit "#id" suffix get a
// stable id assigned on first sight of each distinct shape (enum members, struct fields), so
// two declarations share an identifier only if they describe the same type.
type TypeCache struct {
	specs          abiutils.DynamicSpecs
	mutex          sync.RWMutex
	descriptors    map[string]*TypeDescriptor
	userTypeIDs    map[string]int64  // kind:name{shape} -> id
	userTypeShapes map[string]string // kind:name#id -> shape
	nextUserTypeID int64
}

// NewTypeCache creates a new type cache. specs may be nil if no type name uses spec expressions.
func NewTypeCache(specs abiutils.DynamicSpecs) *TypeCache {
	return &TypeCache{
		specs:       specs,
		descriptors:    make(map[string]*TypeDescriptor),
		userTypeIDs:    make(map[string]int64),
		userTypeShapes: make(map[string]string),
	}
}

// GetTypeDescriptor returns the cached descriptor for a type name, parsing it if necessary.
//
// Example:
//
//	desc, err := cache.GetTypeDescriptor("uint256[2] memory")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(desc.Identifier()) // t_array$_t_uint256_$2_memory_ptr
func (tc *TypeCache) GetTypeDescriptor(typeName string) (*TypeDescriptor, error) {
	key := strings.Join(strings.Fields(typeName), " ")

	tc.mutex.RLock()
	if desc, exists := tc.descriptors[key]; exists {
		tc.mutex.RUnlock()
		return desc, nil
	}
	tc.mutex.RUnlock()

	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	if desc, exists := tc.descriptors[key]; exists {
		return desc, nil
	}

	parser := &typeParser{
		input: key,
		cache: tc,
	}
	desc, err := parser.parse()
	if err != nil {
		return nil, err
	}

	tc.descriptors[key] = desc
	return desc, nil
}

// GetTypeDescriptors parses a list of type names, preserving order.
func (tc *TypeCache) GetTypeDescriptors(typeNames []string) ([]*TypeDescriptor, error) {
	descs := make([]*TypeDescriptor, len(typeNames))
	for i, typeName := range typeNames {
		desc, err := tc.GetTypeDescriptor(typeName)
		if err != nil {
			return nil, fmt.Errorf("type #%d: %w", i, err)
		}
		descs[i] = desc
	}
	return descs, nil
}

// GetCachedTypes returns the names of all cached types.
func (tc *TypeCache) GetCachedTypes() []string {
	tc.mutex.RLock()
	defer tc.mutex.RUnlock()

	names := make([]string, 0, len(tc.descriptors))
	for name := range tc.descriptors {
		names = append(names, name)
	}
	return names
}

// RemoveAllTypes clears the cache, including assigned user type ids.
func (tc *TypeCache) RemoveAllTypes() {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	tc.descriptors = make(map[string]*TypeDescriptor)
	tc.userTypeIDs = make(map[string]int64)
	tc.userTypeShapes = make(map[string]string)
	tc.nextUserTypeID = 0
}

// userTypeID returns the id of a user defined type with the given shape. An explicit id that
// was already used for a different shape of the same name is rejected.
// Must be called with the write lock held.
func (tc *TypeCache) userTypeID(kind, name, shape string, explicitID int64) (int64, error) {
	key := kind + ":" + name + "{" + shape + "}"
	if explicitID <= 0 {
		if id, exists := tc.userTypeIDs[key]; exists {
			return id, nil
		}
		tc.nextUserTypeID++
		tc.userTypeIDs[key] = tc.nextUserTypeID
		tc.userTypeShapes[fmt.Sprintf("%s:%s#%d", kind, name, tc.nextUserTypeID)] = shape
		return tc.nextUserTypeID, nil
	}

	idKey := fmt.Sprintf("%s:%s#%d", kind, name, explicitID)
	if declared, exists := tc.userTypeShapes[idKey]; exists && declared != shape {
		return 0, fmt.Errorf("%v %v#%d redeclared with a different shape", kind, name, explicitID)
	}
	tc.userTypeShapes[idKey] = shape
	if _, exists := tc.userTypeIDs[key]; !exists {
		tc.userTypeIDs[key] = explicitID
	}
	if explicitID > tc.nextUserTypeID {
		tc.nextUserTypeID = explicitID
	}
	return explicitID, nil
}

func (tc *TypeCache) resolveExpression(expr string) (uint64, error) {
	if tc.specs == nil {
		return 0, fmt.Errorf("no spec values available to resolve '%v'", expr)
	}
	ok, value, err := tc.specs.ResolveSpecValue(expr)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("unresolved spec expression '%v'", expr)
	}
	return value, nil
}
