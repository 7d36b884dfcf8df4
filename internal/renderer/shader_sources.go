package renderer

// Built-in shader sources in the unified <split> format the file loader
// accepts, so on-disk overrides can be dropped in without code changes.

const geometryShaderSource = `#version 410 core

layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec2 inTexCoord;
layout(location = 2) in vec4 inColor;
layout(location = 3) in vec3 inNormal;

uniform mat4 model;
uniform mat4 view;
uniform mat4 perspective;

out vec3 FragPos;
out vec2 fragTexCoord;
out vec4 fragColor;
out vec3 Normal;

void main() {
    FragPos = vec3(model * vec4(inPosition, 1.0));
    Normal = mat3(model) * inNormal;
    fragTexCoord = inTexCoord;
    fragColor = inColor;
    gl_Position = perspective * view * vec4(FragPos, 1.0);
}
<split>
#version 410 core

in vec3 FragPos;
in vec2 fragTexCoord;
in vec4 fragColor;
in vec3 Normal;

uniform sampler2D texDiffuse;
uniform sampler2D texGloss;
uniform sampler2D texAO;
uniform sampler2D texNormal;
uniform sampler2D texHeight;

layout(location = 0) out vec4 gPosition;
layout(location = 1) out vec4 gNormal;
layout(location = 2) out vec4 gAlbedoSpec;

void main() {
    vec4 diffuse = texture(texDiffuse, fragTexCoord);
    vec3 albedo = mix(fragColor.rgb, diffuse.rgb, diffuse.a);

    // Crude world-space detail bump; no tangent basis at this stage.
    vec3 bump = texture(texNormal, fragTexCoord).rgb * 2.0 - 1.0;
    vec3 normal = normalize(normalize(Normal) + bump * 0.25);

    gPosition = vec4(FragPos, texture(texAO, fragTexCoord).r);
    gNormal = vec4(normal, texture(texHeight, fragTexCoord).r);
    gAlbedoSpec = vec4(albedo, texture(texGloss, fragTexCoord).r);
}
`

const lightingShaderSource = `#version 410 core

out vec2 fragTexCoord;

// Fullscreen triangle from vertex-index parity; no vertex buffer bound.
void main() {
    vec2 pos = vec2(float((gl_VertexID & 1) << 2) - 1.0,
                    float((gl_VertexID & 2) << 1) - 1.0);
    fragTexCoord = pos * 0.5 + 0.5;
    gl_Position = vec4(pos, 0.0, 1.0);
}
<split>
#version 410 core

in vec2 fragTexCoord;

struct Light {
    vec3 position;
    vec3 color;
    vec3 direction;
    float strength;
};

uniform Light lights[16];
uniform vec3 cameraPos;
uniform sampler2D gPosition;
uniform sampler2D gNormal;
uniform sampler2D gAlbedoSpec;

out vec4 FragColor;

const float ambientFactor = 0.15;
const float refDistance = 40.0;
const float shininess = 32.0;
const float spotExponent = 8.0;

void main() {
    vec4 position = texture(gPosition, fragTexCoord);
    vec3 worldPos = position.rgb;
    float ao = position.a;

    vec4 packedNormal = texture(gNormal, fragTexCoord);
    vec3 normal = normalize(packedNormal.rgb);

    vec4 albedoSpec = texture(gAlbedoSpec, fragTexCoord);
    vec3 albedo = albedoSpec.rgb;
    float gloss = albedoSpec.a;

    vec3 viewDir = normalize(cameraPos - worldPos);
    vec3 result = albedo * ambientFactor;

    for (int i = 0; i < 16; i++) {
        if (lights[i].strength == 0.0) {
            continue;
        }
        float dist = length(lights[i].position - worldPos);
        float attenuation = 1.0 / pow(dist / refDistance + 1.0, 2.0);
        if (attenuation < 0.001) {
            continue;
        }

        vec3 lightDir = normalize(lights[i].position - worldPos);
        vec3 diffuse = max(dot(normal, lightDir), 0.0) * albedo * ao * lights[i].color;
        vec3 halfDir = normalize(lightDir + viewDir);
        vec3 specular = pow(max(dot(normal, halfDir), 0.0), shininess) * gloss * lights[i].color;

        vec3 contribution = (diffuse + specular) * lights[i].strength * attenuation;
        if (dot(lights[i].direction, lights[i].direction) > 0.0001) {
            contribution *= pow(max(dot(-lightDir, normalize(lights[i].direction)), 0.0), spotExponent);
        }
        result += contribution;
    }

    // Tone-mapping policy: Reinhard-style compression plus gamma 2.2.
    vec3 mapped = pow(result / (result + vec3(1.0)), vec3(1.0 / 2.2));
    FragColor = vec4(mapped, 1.0);
}
`

const interfaceShaderSource = `#version 410 core

layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec2 inTexCoord;

uniform mat4 model;
uniform mat4 ortho;
uniform vec2 uvOffset;
uniform vec2 uvScale;

out vec2 fragTexCoord;

void main() {
    fragTexCoord = uvOffset + inTexCoord * uvScale;
    gl_Position = ortho * model * vec4(inPosition, 1.0);
}
<split>
#version 410 core

in vec2 fragTexCoord;

uniform sampler2D texSampler;
uniform float uiDepth;
uniform bool isFont;
uniform vec4 tint;

out vec4 FragColor;

float median3(float r, float g, float b) {
    return max(min(r, g), min(max(r, g), b));
}

void main() {
    vec4 sampled = texture(texSampler, fragTexCoord);
    if (isFont) {
        float dist = median3(sampled.r, sampled.g, sampled.b);
        float opacity = clamp((dist - 0.5) * 4.0 + 0.5, 0.0, 1.0);
        if (opacity <= 0.0) {
            discard;
        }
        FragColor = vec4(tint.rgb, tint.a * opacity);
    } else {
        if (sampled.a < 0.1) {
            discard;
        }
        FragColor = sampled * tint;
    }
    gl_FragDepth = uiDepth;
}
`
