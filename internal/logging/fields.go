package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// CacheFields 提供缓存引擎日志的公共字段。
func CacheFields(action, root string) logrus.Fields {
	return logrus.Fields{
		"action": action,
		"root":   root,
	}
}

// EntryFields 描述单个缓存条目：原始标识符与派生键。
func EntryFields(id, key string) logrus.Fields {
	return logrus.Fields{
		"id":  id,
		"key": key,
	}
}
