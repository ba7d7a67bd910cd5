/*
Package routing 实现调度引擎的编排层。

一次调用的流程：

	modelID ──Resolve──▶ Group ──BuildCandidates──▶ []Candidate
	        ──FilterByModel──▶ 选择 Dispatcher ──▶ Dispatch / DispatchStream

模型标识形如 "<group>" 或 "<group>/<model>"，只按第一个 "/" 切分，
因此 "chat/vendor/model-x" 解析为分组 "chat"、指定模型 "vendor/model-x"。
*/
package routing
