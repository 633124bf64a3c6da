// Package library 实现图书借阅合约的客户端状态机
//
// 组成：
//   - ContractBinding: 绑定到固定合约地址的句柄，签名器出现时构造
//   - Executor: 单次合约调用的生命周期（提交 → 等待打包 → 分类结果）
//   - ReadCache: 最近一次读取的可借图书
//   - Project: CoreState 到四字段视图快照的纯函数
//   - Session: 把以上组件串起来的状态机，同一时刻最多一个操作在途
//
// 状态机阶段：Unbound → Ready(idle) ⇄ Ready(busy) → Ready(idle|error)，
// 签名器断开时从任意阶段回到 Unbound。修改类操作默认不刷新可借数量。
package library
