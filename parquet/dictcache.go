// Copyright 2024 The FlareDB Authors
// This file is part of FlareDB.
//
// FlareDB is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// FlareDB is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with FlareDB. If not, see <http://www.gnu.org/licenses/>.

package parquet

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DictCacheKey identifies a single decoded dictionary page: rescanning the
// same column chunk (a Limit retry, or two pipelines sharing a scan) would
// otherwise re-decode it.
type DictCacheKey struct {
	FileIdentity string
	ColumnOrdinal int
	PageOffset    int64
}

// DictCache is a bounded LRU of decoded dictionary pages. A miss behaves
// exactly like a fresh decode (the caller decodes and calls Add); a hit
// must be value-identical to what a fresh decode would produce, since nothing
// else distinguishes a cached ViewBuffer from a freshly built one.
type DictCache struct {
	lru *lru.Cache[DictCacheKey, *ViewBuffer]
}

func NewDictCache(capacity int) (*DictCache, error) {
	c, err := lru.New[DictCacheKey, *ViewBuffer](capacity)
	if err != nil {
		return nil, err
	}
	return &DictCache{lru: c}, nil
}

func (c *DictCache) Get(key DictCacheKey) (*ViewBuffer, bool) {
	return c.lru.Get(key)
}

func (c *DictCache) Add(key DictCacheKey, buf *ViewBuffer) {
	c.lru.Add(key, buf)
}
