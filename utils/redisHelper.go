package utils

import (
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/mmdatafocus/rentals_backend/config"
)

func GetCacheLifespan() time.Duration {
	lifespan, err := strconv.Atoi(os.Getenv("CACHE_LIFESPAN"))
	if err != nil {
		lifespan = 1
	}
	return time.Duration(lifespan) * time.Hour
}

/* generic functions */

func GetTypeName[T any]() string {
	var v T
	typeOfT := reflect.TypeOf(v)
	return typeOfT.Name()
}

/* Redis */

// store list of a landlord's records, TypeList:$landlord_id
func StoreRedisList[T any](obj any, landlordId string) error {
	var key string
	if landlordId == "" {
		key = GetTypeName[T]() + "List"
	} else {
		key = GetTypeName[T]() + "List:" + landlordId
	}
	return config.SetRedisObject(key, &obj, GetCacheLifespan())
}

// retrieve a list.
// landlordId can be empty
func RetrieveRedisList[T any](landlordId string) ([]*T, error) {
	var key string
	if landlordId == "" {
		key = GetTypeName[T]() + "List"
	} else {
		key = GetTypeName[T]() + "List:" + landlordId
	}

	var result []*T
	exists, err := config.GetRedisObject(key, &result)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return result, nil
}

// clear list, TypeList:$landlord_id
func RemoveRedisList[T any](landlordId string) error {
	var key string = GetTypeName[T]() + "List:" + landlordId
	return config.RemoveRedisKey(key)
}
