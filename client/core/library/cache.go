package library

// ReadCache 最近一次读取的可借图书
//
// 非并发安全，由 Session 在持锁时访问。
type ReadCache struct {
	count *uint64
	books []Book
}

// Store 保存读取结果并返回数量
func (c *ReadCache) Store(books []Book) uint64 {
	count := uint64(len(books))
	c.count = &count
	c.books = append([]Book(nil), books...)
	return count
}

// Count 返回数量的副本，从未读取过时为 nil
func (c *ReadCache) Count() *uint64 {
	if c.count == nil {
		return nil
	}
	v := *c.count
	return &v
}

// Books 返回图书列表的副本
func (c *ReadCache) Books() []Book {
	return append([]Book(nil), c.books...)
}

// Reset 清空缓存
func (c *ReadCache) Reset() {
	c.count = nil
	c.books = nil
}
