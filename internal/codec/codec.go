package codec

// Codec 描述一种序列化格式，要求能够无损往返标量、序列、映射以及结构体。
type Codec interface {
	// Name 返回注册键，例如 json、yaml。
	Name() string

	// Marshal 将任意值编码为字节。
	Marshal(v any) ([]byte, error)

	// Unmarshal 将字节解码到 v（必须为指针）。输入被截断或包含多余内容时返回错误。
	Unmarshal(data []byte, v any) error
}

const defaultCodecName = "json"

// DefaultName 返回未配置时使用的编解码器名称。
func DefaultName() string {
	return defaultCodecName
}

// Default 返回默认编解码器（JSON）。
func Default() Codec {
	c, _ := Resolve(defaultCodecName)
	return c
}

// Convert 通过 c 将 src 重新编码后解码到 dst，用于把通用结构（map/slice）
// 还原为调用方期望的具体类型。
func Convert(c Codec, src any, dst any) error {
	raw, err := c.Marshal(src)
	if err != nil {
		return err
	}
	return c.Unmarshal(raw, dst)
}
