package hadoop

// Conf Hadoop 集群配置
type Conf struct {
	NameNodeURL  string // WebHDFS 地址，例如 http://namenode:9870
	User         string // WebHDFS user.name
	BasePath     string // HDFS 工作根目录
	HadoopBin    string // hadoop 可执行文件路径
	StreamingJar string // hadoop-streaming jar 路径
	ScriptDir    string // mapper/reducer 脚本目录
	JobTimeout   int    // 单个作业超时（秒）
	HTTPTimeout  int    // WebHDFS 请求超时（秒）
	MaxRetries   int    // WebHDFS 操作重试次数
}

// SetDefaults 填充缺省配置
func (c *Conf) SetDefaults() {
	if c.NameNodeURL == "" {
		c.NameNodeURL = "http://localhost:9870"
	}
	if c.User == "" {
		c.User = "hadoop"
	}
	if c.BasePath == "" {
		c.BasePath = "/kgraph"
	}
	if c.HadoopBin == "" {
		c.HadoopBin = "hadoop"
	}
	if c.StreamingJar == "" {
		c.StreamingJar = "/opt/hadoop/share/hadoop/tools/lib/hadoop-streaming.jar"
	}
	if c.ScriptDir == "" {
		c.ScriptDir = "/opt/kgraph/scripts"
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = 1800
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 30
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
}
