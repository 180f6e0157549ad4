package utils

import (
	"fmt"
	"reflect"

	"github.com/makerledger/inventory_backend/config"
)

func GetTypeName[T any]() string {
	var v T
	return reflect.TypeOf(v).Name()
}

// cacheable model types; everything else is stored without expiration
func typeHasExpiration(typeName string) bool {
	expirableTypes := map[string]bool{
		"Organization": true,
		"Product":      true,
		"Part":         true,
	}
	return expirableTypes[typeName]
}

// StoreRedis caches one instance under "<Type>:<id>". obj should be a pointer.
func StoreRedis[T any](obj any, id any) error {
	typeName := GetTypeName[T]()
	key := typeName + ":" + fmt.Sprint(id)

	if typeHasExpiration(typeName) {
		return config.SetRedisObject(key, &obj, GetCacheLifespan())
	}
	return config.SetRedisObject(key, &obj, 0)
}

// FetchRedis loads a cached instance; the bool reports a cache hit.
func FetchRedis[T any](id any) (*T, bool, error) {
	key := GetTypeName[T]() + ":" + fmt.Sprint(id)
	var obj T
	exists, err := config.GetRedisObject(key, &obj)
	if err != nil || !exists {
		return nil, false, err
	}
	return &obj, true, nil
}

// ClearRedis drops a cached instance after a write.
func ClearRedis[T any](id any) error {
	key := GetTypeName[T]() + ":" + fmt.Sprint(id)
	return config.RemoveRedisKey(key)
}
