/*
包 database 提供基于 GORM 的数据库连接与连接池管理。

Open 根据 config.DatabaseConfig 选择方言（postgres、mysql、
sqlite 纯 Go 实现、sqlite3 cgo 实现），PoolManager 负责连接池调优、
后台健康检查与关闭。分组存储见 store 包。
*/
package database
